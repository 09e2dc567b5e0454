package config

// TreeFileExt is the extension of serialised expression trees.
const TreeFileExt = ".yaml"

// ConfigFileName is looked up from the working directory upwards.
const ConfigFileName = "lambda.yaml"

// Reserved names bound by the evaluator
const (
	ThisName  = "this"
	ErrorName = "error"
)

// Default operator context names
const (
	TypeOfFuncName = "typeof"
	NotFuncName    = "not"
	SeqFuncName    = "seq"
	HostNamespace  = "host"
	HostNullName   = "NULL"
	HostUndefName  = "UNDEFINED"
)

// Defaults for lambda.yaml
const (
	DefaultMaxDepth     = 10000
	DefaultLogLevel     = "warn"
	DefaultGlobalsTable = "globals"
)
