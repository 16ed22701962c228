// internal/models/tone.go
package models

// Tone selects the instruction prefix used to condition generation.
type Tone string

const (
	ToneFormal    Tone = "formal"
	ToneCasual    Tone = "casual"
	ToneCreative  Tone = "creative"
	ToneTechnical Tone = "technical"
)

// toneTemplates is the process-wide, read-only tone instruction table.
var toneTemplates = map[Tone]string{
	ToneFormal:    "Write in a formal, professional manner: ",
	ToneCasual:    "Write in a casual, conversational style: ",
	ToneCreative:  "Write creatively and imaginatively: ",
	ToneTechnical: "Write in a technical, precise manner: ",
}

// Instruction returns the conditioning prefix for the tone. Unrecognized
// tones condition with an empty prefix rather than failing.
func (t Tone) Instruction() string {
	return toneTemplates[t]
}
