package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yoquelvisdev08/factura/internal/models"
)

func TestTemplateIsValid(t *testing.T) {
	assert.True(t, models.TemplateProfesional.IsValid())
	assert.True(t, models.TemplateModerna.IsValid())
	assert.True(t, models.TemplateClasica.IsValid())
	assert.False(t, models.Template("minimalista").IsValid())
	assert.False(t, models.Template("").IsValid())
}

func TestDefaultTheme_SeedsPerTemplate(t *testing.T) {
	profesional := models.DefaultTheme(models.TemplateProfesional)
	assert.Equal(t, "#6366F1", profesional.PrimaryColor)
	assert.Equal(t, "#EC4899", profesional.SecondaryColor)
	assert.Equal(t, 24, profesional.HeaderFontSize)

	moderna := models.DefaultTheme(models.TemplateModerna)
	assert.Equal(t, "#10B981", moderna.PrimaryColor)
	assert.Equal(t, "#059669", moderna.AccentColor)
	assert.Equal(t, 20, moderna.HeaderFontSize)
	assert.Equal(t, 9, moderna.BodyFontSize)

	clasica := models.DefaultTheme(models.TemplateClasica)
	assert.Equal(t, "#F59E0B", clasica.PrimaryColor)
	assert.Equal(t, "#D97706", clasica.AccentColor)

	// Las claves no sembradas comparten la base común
	assert.Equal(t, profesional.TextColor, moderna.TextColor)
	assert.Equal(t, profesional.FontFamily, clasica.FontFamily)
}

func TestResolveTheme_OverrideWins(t *testing.T) {
	primary := "#112233"
	size := 14

	theme := models.ResolveTheme(models.TemplateProfesional, &models.ThemeOverrides{
		PrimaryColor: &primary,
		BodyFontSize: &size,
	})

	assert.Equal(t, "#112233", theme.PrimaryColor)
	assert.Equal(t, 14, theme.BodyFontSize)
	// Las claves no tocadas caen al default de la plantilla
	assert.Equal(t, "#EC4899", theme.SecondaryColor)
}

func TestResolveTheme_NilOverrides(t *testing.T) {
	assert.Equal(t, models.DefaultTheme(models.TemplateModerna), models.ResolveTheme(models.TemplateModerna, nil))
}

func TestResolveTheme_OverridesSurviveTemplateSwitch(t *testing.T) {
	primary := "#ff0000"
	overrides := &models.ThemeOverrides{PrimaryColor: &primary}

	onProfesional := models.ResolveTheme(models.TemplateProfesional, overrides)
	onModerna := models.ResolveTheme(models.TemplateModerna, overrides)

	// El override viaja con el usuario; lo no tocado sigue a la plantilla
	assert.Equal(t, "#ff0000", onProfesional.PrimaryColor)
	assert.Equal(t, "#ff0000", onModerna.PrimaryColor)
	assert.Equal(t, "#34D399", onModerna.SecondaryColor)
	assert.Equal(t, 9, onModerna.BodyFontSize)
}

func TestResolveTheme_Idempotent(t *testing.T) {
	accent := "#00ff00"
	overrides := &models.ThemeOverrides{AccentColor: &accent}

	first := models.ResolveTheme(models.TemplateClasica, overrides)
	second := models.ResolveTheme(models.TemplateClasica, overrides)

	assert.Equal(t, first, second)
}
