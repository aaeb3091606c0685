package wasmlib

// Import and export names shared with guest modules.
const (
	// HostModule is the import module the loader provides to every library.
	HostModule = "bridge"
	// ThrowBounds is the host import a guest calls, with (declared,
	// capacity), when a declared length does not fit an array argument:
	// either it exceeds the capacity or the guest needs exactly declared
	// elements. It does not return.
	ThrowBounds = "throw_bounds"

	DefaultMemoryExport = "memory"
	DefaultAllocExport  = "cabi_realloc"

	// PostReturnPrefix names the optional export called with the return
	// pointer once results have been read.
	PostReturnPrefix = "cabi_post_"
)

// Config holds configuration for library loading
type Config struct {
	// MemoryLimitPages sets the maximum memory per library in pages (64KB each).
	// 0 means the wazero default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// MemoryExport names the guest memory. Empty means "memory".
	MemoryExport string

	// AllocExport names the guest allocator with cabi_realloc semantics.
	// Empty means "cabi_realloc".
	AllocExport string
}

func (c *Config) withDefaults() Config {
	var out Config
	if c != nil {
		out = *c
	}
	if out.MemoryExport == "" {
		out.MemoryExport = DefaultMemoryExport
	}
	if out.AllocExport == "" {
		out.AllocExport = DefaultAllocExport
	}
	return out
}
