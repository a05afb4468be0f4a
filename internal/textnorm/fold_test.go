package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Recuérdame", "recuerdame"},
		{"CRÍTICO", "critico"},
		{"Mañana", "mañana"},
		{"¿Qué tal?", "¿que tal?"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"que", "hora", "es"}, Words("¿Qué hora es?"))
	assert.Equal(t, []string{"15", "08", "2024"}, Words("15/08/2024"))
	assert.Empty(t, Words("  ¡¿!?  "))
}
