package confbind

// Protectable bypasses schema-driven walking. When a settings type
// implements this interface, Walk calls ApplyProtection instead of
// traversing the type's schema descriptors.
//
// This provides two benefits:
// 1. Performance: skip descriptor iteration for hot paths
// 2. Custom logic: transforms that cannot be expressed as per-field
// descriptors
//
// The method receives the resolved call-level parameters; per-field
// metadata is the implementation's own responsibility.
type Protectable interface {
	// ApplyProtection transforms the receiver's protected fields in the
	// given direction using the supplied protector.
	ApplyProtection(dir Direction, prot Protector, params Params) error
}
