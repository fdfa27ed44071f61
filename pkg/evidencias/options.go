package evidencias

type options struct {
	schemaFile      string
	synonyms        []SynonymGroup
	textColumns     []string
	progress        []func(Event)
	progressFile    string
	progressMaxSize int64
	progressBackups int
	runLog          string
	bufferSize      int
}

// Option configures an Engine.
type Option func(*options)

// WithSchemaFile loads extra header synonyms from a YAML file. They are
// merged into the built-in table unless the file sets replace: true.
func WithSchemaFile(path string) Option {
	return func(o *options) {
		o.schemaFile = path
	}
}

// WithSynonyms replaces the built-in header synonym table.
// Ignored when WithSchemaFile is also given.
func WithSynonyms(groups ...SynonymGroup) Option {
	return func(o *options) {
		o.synonyms = groups
	}
}

// WithTextColumns sets which canonical columns are written as text in the
// evidence spreadsheets. Default: cuenta, dni, telefono, numero_credito,
// celular, documento.
func WithTextColumns(keys ...string) Option {
	return func(o *options) {
		o.textColumns = keys
	}
}

// WithProgress registers a callback receiving every progress event of
// Run. The callback runs on the worker; keep it fast.
func WithProgress(fn func(Event)) Option {
	return func(o *options) {
		o.progress = append(o.progress, fn)
	}
}

// WithProgressFile appends every progress event as NDJSON to path.
func WithProgressFile(path string) Option {
	return func(o *options) {
		o.progressFile = path
	}
}

// WithProgressRotation rotates the progress file once it would grow past
// maxSize bytes, keeping backups older files as {path}.1 (newest) to
// {path}.N. Without it the file grows without limit.
func WithProgressRotation(maxSize int64, backups int) Option {
	return func(o *options) {
		o.progressMaxSize = maxSize
		o.progressBackups = backups
	}
}

// WithRunLog keeps a JSON audit log of every run at path.
func WithRunLog(path string) Option {
	return func(o *options) {
		o.runLog = path
	}
}

// WithBufferSize sets how many events Start buffers for a slow subscriber.
// Default: 256.
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = n
	}
}

func defaultOptions() options {
	return options{bufferSize: 256, progressBackups: 3}
}
