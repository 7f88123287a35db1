package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "./uploads", cfg.Storage.UploadPath)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
	assert.Equal(t, EngineNaive, cfg.Template.Engine)
}

func TestLoadTemplateEngine(t *testing.T) {
	t.Setenv("TEMPLATE_ENGINE", EngineStructured)
	cfg := Load()
	assert.Equal(t, EngineStructured, cfg.Template.Engine)
}

func TestLoadUnknownTemplateEngineFallsBack(t *testing.T) {
	t.Setenv("TEMPLATE_ENGINE", "jinja")
	cfg := Load()
	assert.Equal(t, EngineNaive, cfg.Template.Engine)
}
