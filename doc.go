// Package confbind binds raw configuration data into strongly-typed settings
// objects, selectively encrypts/decrypts protected string fields in the
// settings object graph, and validates the result before handing it to a
// registration callback.
//
// # Schemas
//
// Field discovery is statically declared: each settings type gets a Schema
// built through an explicit builder instead of struct tags or reflection.
// A schema descriptor is either a protected string field (with optional
// entropy bytes and a protection scope) or a nested settings object the
// walker recurses into:
//
//	type DatabaseSettings struct {
//	    Host     string `yaml:"host"`
//	    Password string `yaml:"password"`
//	}
//
//	var databaseSchema = confbind.NewSchema[DatabaseSettings]("DatabaseSettings").
//	    Protected("Password",
//	        func(s *DatabaseSettings) string { return s.Password },
//	        func(s *DatabaseSettings, v string) { s.Password = v },
//	        confbind.WithScope(confbind.ScopeUser))
//
// Nested objects are registered with [Nested], which links the child schema
// through a typed accessor. A nil child is skipped at walk time.
//
// # Walking
//
// [Walk] traverses a live settings object depth-first and applies the
// requested transform to every protected field:
//
//	report, err := confbind.Walk(ctx, databaseSchema, &settings,
//	    confbind.Decrypt, protector)
//
// Encryption converts plaintext to bytes, invokes the protector, and stores
// the result base64-encoded; decryption is the mirror image. Empty values
// are left untouched. The first failing field stops the walk with a
// *ProtectionError naming the field and its owning type.
//
// # Protectors
//
// The walker is polymorphic over any [Protector]. [Local] provides an
// AES-GCM implementation whose key is derived per call from a master key,
// the effective entropy, and the protection scope. When neither the call
// site nor the field metadata supplies entropy, the fixed [DefaultEntropy]
// fallback is used.
//
// # Binding pipeline
//
// [Binder] orchestrates the full preparation sequence: reject empty sources,
// instantiate, bind, decrypt, validate, register.
//
//	binder := confbind.NewBinder(databaseSchema, yaml.File("app.yaml")).
//	    WithProtector(protector).
//	    WithRegistrar("database", registrar)
//
//	settings, err := binder.Bind(ctx)   // raising mode
//	ok, err := binder.TryBind(ctx)      // boolean mode
//
// The boolean mode collapses validation failure to false; wiring problems
// (missing sources, bind errors, protection failures) are never swallowed.
//
// # Configuration sources
//
// Sources implement the narrow [Source] interface. The following adapters
// are available as subpackages:
//
//   - yaml - YAML files or byte slices
//   - json - JSON files or byte slices
//   - env - environment variables with a required prefix
//   - viper - an existing spf13/viper instance or sub-section
//
// # Validation
//
// A settings type opts into validation by implementing [Validatable]. An
// external [Validator] collaborator, when configured, takes precedence.
// Validation failures enumerate every failing field path with its messages.
package confbind
