package dialogue

import (
	"github.com/shahar-caura/marino/internal/intent"
)

// Fixed texts for CREATE_REMINDER and LIST_REMINDERS.
const (
	reminderConfirm  = "He entendido que quieres crear un recordatorio sobre \"%s\" para el %s."
	reminderNeedDate = "He captado el tema del recordatorio, pero necesito saber cuándo debo recordártelo. ¿Para qué fecha es este recordatorio?"
	reminderNeedWhat = "He captado la fecha (%s), pero necesito saber qué debo recordarte. ¿Qué quieres que recuerde?"
	reminderNeedBoth = "Entiendo que quieres crear un recordatorio. ¿Sobre qué tema y para cuándo lo necesitas?"
	listReminders    = "Puedes ver tus recordatorios en la pestaña \"Recordatorios\"."
)

// Responses maps a label to the canned replies picked from at random.
type Responses map[intent.Label][]string

// DefaultResponses returns the built-in replies for every conversational label
// and for UNKNOWN.
func DefaultResponses() Responses {
	return Responses{
		intent.Greeting: {
			"¡Hola! Soy Don Mariño. ¿En qué puedo ayudarte hoy?",
			"¡Buenas! ¿Quieres que te ayude con algún recordatorio?",
			"¡Hola! Cuéntame qué necesitas recordar.",
		},
		intent.Farewell: {
			"¡Hasta luego! Aquí estaré cuando me necesites.",
			"¡Adiós! Que tengas un buen día.",
			"¡Nos vemos! No olvides revisar tus recordatorios.",
		},
		intent.Thanks: {
			"¡De nada! Para eso estoy.",
			"Un placer ayudarte.",
			"¡A ti! Si necesitas algo más, dímelo.",
		},
		intent.Weather: {
			"No tengo acceso a la previsión del tiempo, pero puedo recordarte que mires el pronóstico.",
			"El tiempo no es lo mío. ¿Quieres que te recuerde coger el paraguas?",
		},
		intent.SmallTalk: {
			"¡Muy bien, gracias por preguntar! ¿Te ayudo con algún recordatorio?",
			"Aquí estoy, listo para ayudarte a no olvidar nada.",
			"Soy Don Mariño, tu asistente de recordatorios. ¿Qué necesitas?",
		},
		intent.Jokes: {
			"¿Por qué el libro de matemáticas estaba triste? Porque tenía demasiados problemas.",
			"¿Qué le dice un recordatorio a otro? ¡No te olvides de mí!",
			"Había una vez un despertador tan puntual que hasta llegaba antes de sonar.",
		},
		intent.TimeDate: {
			"Puedes ver la fecha y la hora en tu dispositivo. Si quieres, te creo un recordatorio para un día concreto.",
			"No llevo reloj, pero puedo recordarte cosas para cualquier fecha.",
		},
		intent.ActivitiesInfo: {
			"Consulta la agenda de actividades en la recepción. Si alguna te interesa, puedo recordártela.",
			"Hay actividades cada semana. Dime cuál te interesa y te creo un recordatorio.",
		},
		intent.ReservationsHelp: {
			"Las reservas se gestionan en recepción. ¿Quieres que te recuerde hacerla?",
			"No puedo hacer reservas, pero sí recordarte que la hagas. ¿Para qué día?",
		},
		intent.Help: {
			"Soy Don Mariño, tu asistente para recordatorios. Puedo ayudarte a crear y gestionar tus recordatorios de forma sencilla. Para crear un recordatorio, simplemente dime algo como \"Recuérdame comprar leche mañana\" o \"Crear un recordatorio para la reunión del 15 de agosto\". También puedes ver tus recordatorios organizados en la pestaña de Recordatorios.",
		},
		intent.Unknown: {
			"No he entendido completamente tu solicitud. ¿Puedes reformularla? Puedo ayudarte a crear recordatorios o mostrarte tus recordatorios actuales.",
			"Perdona, no te he entendido. Prueba con algo como \"Recuérdame llamar a mamá el viernes\".",
			"No estoy seguro de lo que necesitas. ¿Quieres crear un recordatorio o ver los que tienes?",
		},
	}
}
