package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	assert.NoError(t, err, "Templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderLanding(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = engine.Render(rec, "pages/landing.html", TemplateData{Title: "نادي العلوم"})
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "نادي العلوم")
	assert.Contains(t, rec.Body.String(), "تسجيل الدخول")
}
