package assistant

import "github.com/barekit/shopqa/pkg/llm"

// SystemInstruction constrains the model to the retrieved context.
const SystemInstruction = "Eres un asistente de ventas experto. Responde a la pregunta usando SOLO la información del contexto proporcionado. " +
	"Si te preguntan sobre precios, interpreta los valores correctamente. " +
	"Si te preguntan sobre stock, indica las unidades disponibles. " +
	"Si la información no está en el contexto, indica claramente que no tienes esa información."

const (
	contextLabel  = "Contexto sobre productos:"
	questionLabel = "Pregunta del cliente:"
)

// BuildPrompt composes the user turn sent to the model.
func BuildPrompt(context, question string) string {
	return contextLabel + "\n" + context + "\n\n" + questionLabel + " " + question
}

func buildMessages(instructions, context, question string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: instructions},
		{Role: llm.RoleUser, Content: BuildPrompt(context, question)},
	}
}
