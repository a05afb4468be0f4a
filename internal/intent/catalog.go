package intent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog maps each label to its canonical example phrases. Order matters:
// labels are indexed in Order and the first embeddable example represents
// its label.
type Catalog struct {
	Order    []Label
	Examples map[Label][]string
}

// Get returns the examples for label.
func (c Catalog) Get(label Label) []string { return c.Examples[label] }

// DefaultCatalog returns the built-in Spanish example catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Order: append([]Label(nil), Labels...),
		Examples: map[Label][]string{
			CreateReminder: {
				"Recuérdame comprar leche mañana",
				"Crear un recordatorio para la reunión del lunes",
				"Nueva tarea para el jueves",
				"Agendar cita con el médico el 15 de agosto",
				"Recordatorio para pagar las facturas el 30",
				"Programa una alarma para mañana a las 9",
				"Necesito que me recuerdes llamar a mamá esta tarde",
				"Anota que tengo que recoger el paquete el viernes",
			},
			ListReminders: {
				"Ver mis recordatorios",
				"Mostrar mis tareas pendientes",
				"Listar todos los recordatorios",
				"¿Qué recordatorios tengo para hoy?",
				"Muéstrame mis tareas de esta semana",
				"¿Cuáles son mis próximos recordatorios?",
				"Necesito ver todas mis tareas",
			},
			Greeting: {
				"Hola",
				"Buenos días",
				"Buenas tardes",
				"Buenas noches",
				"Hola, ¿qué tal?",
				"Saludos",
			},
			Farewell: {
				"Adiós",
				"Hasta luego",
				"Nos vemos",
				"Hasta mañana",
				"Chao",
			},
			Thanks: {
				"Gracias",
				"Muchas gracias",
				"Te lo agradezco",
				"Mil gracias por todo",
			},
			Weather: {
				"¿Qué tiempo hace hoy?",
				"¿Va a llover mañana?",
				"¿Hace frío fuera?",
				"¿Cómo está el clima?",
			},
			SmallTalk: {
				"¿Cómo estás?",
				"¿Quién eres?",
				"¿Cómo te llamas?",
				"¿Eres un robot?",
				"Me aburro",
			},
			Jokes: {
				"Cuéntame un chiste",
				"Dime algo gracioso",
				"¿Sabes algún chiste?",
				"Hazme reír",
			},
			TimeDate: {
				"¿Qué hora es?",
				"¿Qué día es hoy?",
				"¿En qué fecha estamos?",
				"Dime la hora",
			},
			ActivitiesInfo: {
				"¿Qué actividades hay?",
				"¿Qué puedo hacer este fin de semana?",
				"Recomiéndame algún plan",
				"¿Hay eventos cerca?",
			},
			ReservationsHelp: {
				"Quiero hacer una reserva",
				"¿Cómo reservo una mesa?",
				"Ayúdame con una reservación",
				"Necesito cancelar mi reserva",
			},
			Help: {
				"Ayuda",
				"¿Cómo funcionas?",
				"¿Qué puedes hacer?",
				"¿Para qué sirves?",
				"Dame instrucciones",
				"¿Qué comandos entiendes?",
				"No sé cómo usarte",
			},
		},
	}
}

type catalogFile struct {
	Intents []struct {
		Label    Label    `yaml:"label"`
		Examples []string `yaml:"examples"`
	} `yaml:"intents"`
}

// LoadCatalog reads a catalog from a YAML file of the form
//
//	intents:
//	  - label: GREETING
//	    examples: ["Hola", "Buenos días"]
//
// Labels keep file order. Unknown labels, UNKNOWN itself and duplicates are rejected.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parsing catalog: %w", err)
	}

	cat := Catalog{Examples: make(map[Label][]string)}
	for i, it := range f.Intents {
		if !it.Label.Valid() || it.Label == Unknown {
			return Catalog{}, fmt.Errorf("catalog entry %d: unknown label %q", i, it.Label)
		}
		if _, dup := cat.Examples[it.Label]; dup {
			return Catalog{}, fmt.Errorf("catalog entry %d: duplicate label %q", i, it.Label)
		}
		cat.Order = append(cat.Order, it.Label)
		cat.Examples[it.Label] = it.Examples
	}
	if len(cat.Order) == 0 {
		return Catalog{}, fmt.Errorf("catalog %s: no intents", path)
	}
	return cat, nil
}
