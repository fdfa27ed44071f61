package model

// Client is a debtor identified by account id, built once per unique account.
type Client struct {
	Cuenta   string
	Nombre   string
	DNI      string
	Telefono string
	Channels ChannelSet
	Row      Row // primary source row the client was built from
	Line     int // 1-based data line in the primary source
}

// BaseFields returns the identity fields written ahead of pass-through columns.
func (c Client) BaseFields() Row {
	return Row{
		FieldCuenta:   c.Cuenta,
		FieldNombre:   c.Nombre,
		FieldDNI:      c.DNI,
		FieldTelefono: c.Telefono,
	}
}

// AudioEntry is one line of the consolidated call-recording index.
// Values are kept exactly as read; path casing and spacing matter.
type AudioEntry struct {
	DNI            string
	Telefono       string
	Ruta           string
	NombreCompleto string
}

// ArtifactKind identifies one file type of an evidence package.
type ArtifactKind string

const (
	ArtifactIVRSheet  ArtifactKind = "ivr_sheet"
	ArtifactIVRAudio  ArtifactKind = "ivr_audio"
	ArtifactSMSSheet  ArtifactKind = "sms_sheet"
	ArtifactCallSheet ArtifactKind = "call_sheet"
	ArtifactCallAudio ArtifactKind = "call_audio"
)

// Artifact is a file produced inside a client folder.
type Artifact struct {
	Kind ArtifactKind
	Name string
}

// Package is the evidence package produced for one client.
type Package struct {
	Client    Client
	Dir       string
	Artifacts []Artifact
	Warnings  []error // non-fatal per-artifact failures
}

// Inputs are the fully resolved paths for a run.
type Inputs struct {
	Primary      string // datos_fuente
	Management   string // nuevos_datos
	SMS          string // optional
	Consolidated string // optional
	IVRAudio     string
	OutputDir    string
	Container    string
}
