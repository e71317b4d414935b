package confbind

// Direction selects which transform a walk applies to protected fields.
type Direction string

const (
	// Encrypt turns plaintext field values into base64-encoded ciphertext.
	Encrypt Direction = "encrypt"

	// Decrypt turns base64-encoded ciphertext back into plaintext.
	Decrypt Direction = "decrypt"
)

// Scope tags the breadth of applicability of a protection key.
type Scope string

const (
	// ScopeMachine ties protected values to the local machine.
	ScopeMachine Scope = "machine"

	// ScopeUser ties protected values to the current user.
	ScopeUser Scope = "user"
)

// validDirections contains all valid walk directions.
var validDirections = map[Direction]bool{
	Encrypt: true,
	Decrypt: true,
}

// validScopes contains all valid protection scopes.
var validScopes = map[Scope]bool{
	ScopeMachine: true,
	ScopeUser:    true,
}

// IsValidDirection returns true if the direction is a known walk direction.
func IsValidDirection(d Direction) bool {
	return validDirections[d]
}

// IsValidScope returns true if the scope is a known protection scope.
func IsValidScope(s Scope) bool {
	return validScopes[s]
}
