package model

// SynonymGroup maps a set of header spellings to one canonical field key.
type SynonymGroup struct {
	Key      string   `yaml:"key"`
	Synonyms []string `yaml:"synonyms"`
}

// Canonical field keys shared by every normalized source.
const (
	FieldCuenta          = "cuenta"
	FieldNombre          = "nombre"
	FieldDNI             = "dni"
	FieldTelefono        = "telefono"
	FieldGestionEfectiva = "gestion_efectiva"
	FieldTipoGestion     = "tipo_gestion"
	FieldNumeroCredito   = "numero_credito"
	FieldRuta            = "ruta"
	FieldNombreCompleto  = "nombre_completo"
)
