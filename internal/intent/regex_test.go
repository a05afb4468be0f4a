package intent

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegex_DefaultTable(t *testing.T) {
	r := NewRegex(nil)
	tests := []struct {
		text string
		want Label
	}{
		{"Recuérdame pagar la factura", CreateReminder},
		{"recuerdame comprar pan", CreateReminder},
		{"Crear un recordatorio para la reunión del lunes", CreateReminder},
		{"Nueva tarea para el jueves", CreateReminder},
		{"Agendar cita con el médico el 15 de agosto", CreateReminder},
		{"Recordatorio para pagar las facturas el 30", CreateReminder},
		{"Programa una alarma para mañana a las 9", CreateReminder},
		{"Necesito que me recuerdes llamar a mamá esta tarde", CreateReminder},
		{"Anota que tengo que recoger el paquete el viernes", CreateReminder},
		{"Ver mis recordatorios", ListReminders},
		{"Necesito ver todas mis tareas", ListReminders},
		{"¿Qué recordatorios tengo para hoy?", ListReminders},
		{"¿Cuáles son mis próximos recordatorios?", ListReminders},
		{"Ayuda", Help},
		{"¿Qué puedes hacer?", Help},
		{"¿Qué comandos entiendes?", Help},
		{"¿Va a llover mañana?", Weather},
		{"¿Cómo está el clima?", Weather},
		{"Cuéntame un chiste", Jokes},
		{"¿Qué hora es?", TimeDate},
		{"¿Qué actividades hay?", ActivitiesInfo},
		{"Quiero hacer una reserva", ReservationsHelp},
		{"Muchas gracias", Thanks},
		{"Hasta luego", Farewell},
		{"Hola", Greeting},
		{"Buenos días", Greeting},
		{"¡Hola!", Greeting},
		{"¿Qué tal?", Greeting},
		{"¡Buenas noches!", Greeting},
		{"¿Qué tal estás?", SmallTalk},
		{"¡Anota que mañana hay reunión!", CreateReminder},
		{"¿Cómo estás?", SmallTalk},
		{"asdkjaslkdj", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Match(tt.text))
		})
	}
}

func TestRegex_Deterministic(t *testing.T) {
	r := NewRegex(nil)
	inputs := []string{"Hola", "Recuérdame pagar la factura", "asdkjaslkdj", "ver mis recordatorios"}
	for _, in := range inputs {
		first := r.Match(in)
		for range 50 {
			assert.Equal(t, first, r.Match(in))
		}
	}
}

func TestRegex_DeclarationOrderShadows(t *testing.T) {
	table := []Pattern{
		{Greeting, []*regexp.Regexp{regexp.MustCompile(`(?i)hola`)}},
		{CreateReminder, []*regexp.Regexp{regexp.MustCompile(`(?i)recu[eé]rdame`)}},
	}
	r := NewRegex(table)
	assert.Equal(t, Greeting, r.Match("Hola, recuérdame llamar"))

	table[0], table[1] = table[1], table[0]
	assert.Equal(t, CreateReminder, NewRegex(table).Match("Hola, recuérdame llamar"))
}

func TestRegex_Classify(t *testing.T) {
	r := NewRegex(nil)

	m, ok := r.Classify(context.Background(), "Hola")
	assert.True(t, ok)
	assert.Equal(t, Match{Label: Greeting, Confidence: 1, Strategy: "regex"}, m)

	_, ok = r.Classify(context.Background(), "qwerty")
	assert.False(t, ok)
}
