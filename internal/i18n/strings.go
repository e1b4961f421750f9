// Package i18n holds the fixed localized strings the chat core writes into
// conversations, plus the language-to-locale mapping used for speech
// output. The full UI translation tables live in the frontend; only the
// strings the backend itself produces are duplicated here.
package i18n

// Supported language names as stored in UserSettings.Language.
const (
	English = "English"
	French  = "French"
	Spanish = "Spanish"
	German  = "German"
)

// Strings is the set of backend-produced messages for one language.
type Strings struct {
	NewChat         string
	AssistantError  string
	GeneratingImage string
	ImageAlt        string
}

var tables = map[string]Strings{
	English: {
		NewChat:         "New chat",
		AssistantError:  "Sorry, something went wrong. Please try again.",
		GeneratingImage: "Generating your image...",
		ImageAlt:        "Generated image",
	},
	French: {
		NewChat:         "Nouvelle discussion",
		AssistantError:  "Désolé, une erreur est survenue. Veuillez réessayer.",
		GeneratingImage: "Génération de votre image...",
		ImageAlt:        "Image générée",
	},
	Spanish: {
		NewChat:         "Nuevo chat",
		AssistantError:  "Lo siento, algo salió mal. Inténtalo de nuevo.",
		GeneratingImage: "Generando tu imagen...",
		ImageAlt:        "Imagen generada",
	},
	German: {
		NewChat:         "Neuer Chat",
		AssistantError:  "Entschuldigung, etwas ist schiefgelaufen. Bitte versuche es erneut.",
		GeneratingImage: "Dein Bild wird erstellt...",
		ImageAlt:        "Generiertes Bild",
	},
}

// For returns the string table for a language, falling back to English for
// anything unknown.
func For(language string) Strings {
	if t, ok := tables[language]; ok {
		return t
	}
	return tables[English]
}

var locales = map[string]string{
	French:  "fr-FR",
	Spanish: "es-ES",
	German:  "de-DE",
	English: "en-US",
}

// LocaleFor maps a language name to a BCP-47 tag for text-to-speech.
// Unknown languages default to en-US.
func LocaleFor(language string) string {
	if l, ok := locales[language]; ok {
		return l
	}
	return "en-US"
}
