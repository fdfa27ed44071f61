package source

import "github.com/carlosaherrerap/Evidencias/internal/model"

// Layout declares how one input is loaded and which fields it must carry.
type Layout struct {
	Name     string
	Required []string

	// Raw disables header normalization and cell cleanup. Columns are then
	// resolved only through Variants, by exact header text.
	Raw      bool
	Variants map[string][]string
}

var (
	// Primary is the datos_fuente source: one line per client.
	Primary = Layout{
		Name: "datos_fuente",
		Required: []string{
			model.FieldCuenta, model.FieldNombre, model.FieldDNI,
			model.FieldTelefono, model.FieldGestionEfectiva,
		},
	}

	// Management is the nuevos_datos source of management records.
	Management = Layout{
		Name:     "nuevos_datos",
		Required: []string{model.FieldCuenta, model.FieldGestionEfectiva},
	}

	// SMS is the sms source keyed by credit number.
	SMS = Layout{
		Name:     "sms",
		Required: []string{model.FieldNumeroCredito},
	}

	// Consolidated is the call-recording index. It is never normalized.
	Consolidated = Layout{
		Name: "consolidados",
		Required: []string{
			model.FieldDNI, model.FieldTelefono, model.FieldRuta, model.FieldNombreCompleto,
		},
		Raw: true,
		Variants: map[string][]string{
			model.FieldDNI:            {"dni", "DNI", "Dni"},
			model.FieldTelefono:       {"telefono", "TELEFONO", "Telefono"},
			model.FieldRuta:           {"ruta", "RUTA", "Ruta"},
			model.FieldNombreCompleto: {"nombre_completo", "NOMBRE_COMPLETO", "nombre completo", "NOMBRE COMPLETO"},
		},
	}
)
