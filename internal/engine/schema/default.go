package schema

import "github.com/carlosaherrerap/Evidencias/internal/model"

// DefaultGroups returns the built-in synonym table. Matching already ignores
// case, surrounding whitespace, and accents, so only genuinely different
// spellings need listing.
func DefaultGroups() []model.SynonymGroup {
	return []model.SynonymGroup{
		{Key: model.FieldCuenta, Synonyms: []string{"CUENTA"}},
		{Key: model.FieldNombre, Synonyms: []string{"NOMBRE", "nombres", "contacto", "nombre completo", "nombre_completo"}},
		{Key: model.FieldDNI, Synonyms: []string{"DNI", "documento"}},
		{Key: model.FieldTelefono, Synonyms: []string{"TELEFONO", "teléfono", "celular"}},
		{Key: model.FieldGestionEfectiva, Synonyms: []string{"GESTION EFECTIVA", "gestión efectiva", "gestion_efectiva"}},
		{Key: model.FieldTipoGestion, Synonyms: []string{"tipo de gestion", "tipo de gestión", "tipo_gestion"}},
		{Key: model.FieldNumeroCredito, Synonyms: []string{"NUMERO DE CREDITO", "número de crédito", "numero_credito"}},
		{Key: model.FieldRuta, Synonyms: []string{"RUTA"}},
	}
}
