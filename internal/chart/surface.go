package chart

// Surface is the drawing capability the renderer writes through.
// Coordinates are 0-based cells relative to the chart origin.
type Surface interface {
	MoveCursor(col, row int) error
	WriteText(text string) error
}

// Recorder is a Surface that keeps every instruction it receives.
type Recorder struct {
	Instructions []Instruction
}

// MoveCursor implements Surface.
func (r *Recorder) MoveCursor(col, row int) error {
	r.Instructions = append(r.Instructions, Move(col, row))
	return nil
}

// WriteText implements Surface.
func (r *Recorder) WriteText(text string) error {
	r.Instructions = append(r.Instructions, Write(text))
	return nil
}
