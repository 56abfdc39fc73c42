package models

// Template representa una plantilla visual de factura
type Template string

const (
	TemplateProfesional Template = "profesional"
	TemplateModerna     Template = "moderna"
	TemplateClasica     Template = "clasica"
)

// IsValid valida que la plantilla sea una de las tres conocidas
func (t Template) IsValid() bool {
	switch t {
	case TemplateProfesional, TemplateModerna, TemplateClasica:
		return true
	}
	return false
}

// Theme representa todos los parámetros visuales ajustables por el usuario.
// Los colores son hex (#rrggbb).
type Theme struct {
	PrimaryColor     string `json:"primaryColor"`
	SecondaryColor   string `json:"secondaryColor"`
	AccentColor      string `json:"accentColor"`
	HeaderColor      string `json:"headerColor"`
	TextColor        string `json:"textColor"`
	SubtextColor     string `json:"subtextColor"`
	BorderColor      string `json:"borderColor"`
	BackgroundColor  string `json:"backgroundColor"`
	TableHeaderColor string `json:"tableHeaderColor"`
	HighlightColor   string `json:"highlightColor"`
	FontFamily       string `json:"fontFamily"`
	HeaderFontFamily string `json:"headerFontFamily"`
	HeaderFontSize   int    `json:"headerFontSize"`
	BodyFontSize     int    `json:"bodyFontSize"`
	FontWeight       string `json:"fontWeight"`
}

// ThemeOverrides representa los valores que el usuario tocó explícitamente.
// Un campo nil significa "no tocado": sigue el default de la plantilla
// incluso después de cambiar de plantilla.
type ThemeOverrides struct {
	PrimaryColor     *string `json:"primaryColor,omitempty"`
	SecondaryColor   *string `json:"secondaryColor,omitempty"`
	AccentColor      *string `json:"accentColor,omitempty"`
	HeaderColor      *string `json:"headerColor,omitempty"`
	TextColor        *string `json:"textColor,omitempty"`
	SubtextColor     *string `json:"subtextColor,omitempty"`
	BorderColor      *string `json:"borderColor,omitempty"`
	BackgroundColor  *string `json:"backgroundColor,omitempty"`
	TableHeaderColor *string `json:"tableHeaderColor,omitempty"`
	HighlightColor   *string `json:"highlightColor,omitempty"`
	FontFamily       *string `json:"fontFamily,omitempty"`
	HeaderFontFamily *string `json:"headerFontFamily,omitempty"`
	HeaderFontSize   *int    `json:"headerFontSize,omitempty"`
	BodyFontSize     *int    `json:"bodyFontSize,omitempty"`
	FontWeight       *string `json:"fontWeight,omitempty"`
}

// baseTheme son los defaults comunes a todas las plantillas
var baseTheme = Theme{
	PrimaryColor:     "#2962ff",
	SecondaryColor:   "#1a237e",
	AccentColor:      "#ff3d00",
	HeaderColor:      "#1a237e",
	TextColor:        "#000000",
	SubtextColor:     "#666666",
	BorderColor:      "#e0e0e0",
	BackgroundColor:  "#ffffff",
	TableHeaderColor: "#f5f5f5",
	HighlightColor:   "#2196f3",
	FontFamily:       "Poppins",
	HeaderFontFamily: "Poppins",
	HeaderFontSize:   24,
	BodyFontSize:     10,
	FontWeight:       "normal",
}

// DefaultTheme retorna la paleta completa por defecto de una plantilla.
// Cada plantilla siembra sus propios colores y tamaños sobre la base común.
func DefaultTheme(template Template) Theme {
	theme := baseTheme

	switch template {
	case TemplateProfesional:
		theme.PrimaryColor = "#6366F1"
		theme.SecondaryColor = "#EC4899"
	case TemplateModerna:
		theme.PrimaryColor = "#10B981"
		theme.SecondaryColor = "#34D399"
		theme.AccentColor = "#059669"
		theme.HeaderFontSize = 20
		theme.BodyFontSize = 9
	case TemplateClasica:
		theme.PrimaryColor = "#F59E0B"
		theme.SecondaryColor = "#FBBF24"
		theme.AccentColor = "#D97706"
	}

	return theme
}

// ResolveTheme combina los defaults de la plantilla con los overrides del
// usuario, clave por clave. El override gana; las claves no tocadas caen al
// default de la plantilla. La mezcla es determinista e idempotente: aplicar
// el mismo set de overrides después de cambiar de plantilla reproduce el
// mismo resultado.
func ResolveTheme(template Template, overrides *ThemeOverrides) Theme {
	theme := DefaultTheme(template)
	if overrides == nil {
		return theme
	}

	if overrides.PrimaryColor != nil {
		theme.PrimaryColor = *overrides.PrimaryColor
	}
	if overrides.SecondaryColor != nil {
		theme.SecondaryColor = *overrides.SecondaryColor
	}
	if overrides.AccentColor != nil {
		theme.AccentColor = *overrides.AccentColor
	}
	if overrides.HeaderColor != nil {
		theme.HeaderColor = *overrides.HeaderColor
	}
	if overrides.TextColor != nil {
		theme.TextColor = *overrides.TextColor
	}
	if overrides.SubtextColor != nil {
		theme.SubtextColor = *overrides.SubtextColor
	}
	if overrides.BorderColor != nil {
		theme.BorderColor = *overrides.BorderColor
	}
	if overrides.BackgroundColor != nil {
		theme.BackgroundColor = *overrides.BackgroundColor
	}
	if overrides.TableHeaderColor != nil {
		theme.TableHeaderColor = *overrides.TableHeaderColor
	}
	if overrides.HighlightColor != nil {
		theme.HighlightColor = *overrides.HighlightColor
	}
	if overrides.FontFamily != nil {
		theme.FontFamily = *overrides.FontFamily
	}
	if overrides.HeaderFontFamily != nil {
		theme.HeaderFontFamily = *overrides.HeaderFontFamily
	}
	if overrides.HeaderFontSize != nil {
		theme.HeaderFontSize = *overrides.HeaderFontSize
	}
	if overrides.BodyFontSize != nil {
		theme.BodyFontSize = *overrides.BodyFontSize
	}
	if overrides.FontWeight != nil {
		theme.FontWeight = *overrides.FontWeight
	}

	return theme
}
