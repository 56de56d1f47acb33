package stepseq

// Engine owns the lifecycle of a session's sequencer and editor, wiring
// them to the same underlying Session and handling atomic session swaps.
type Engine struct {
	session   *Session
	sequencer *Sequencer
	editor    *SessionEditor
}

// NewEngine constructs an Engine around a fresh, empty session.
func NewEngine() *Engine {
	session := NewSession()
	return &Engine{
		session:   session,
		sequencer: NewSequencer(session),
		editor:    NewSessionEditor(session),
	}
}

// Session returns the session currently being played and edited.
func (eng *Engine) Session() *Session { return eng.session }

// Sequencer returns the engine's Sequencer.
func (eng *Engine) Sequencer() *Sequencer { return eng.sequencer }

// Editor returns the engine's SessionEditor.
func (eng *Engine) Editor() *SessionEditor { return eng.editor }

// LoadSession atomically swaps in a new session: the sequencer performs
// the stop/detach/attach/restart protocol, and the editor is retargeted
// with a fresh undo/redo history.
func (eng *Engine) LoadSession(session *Session) {
	eng.sequencer.LoadSession(session)
	eng.editor.Retarget(session)
	eng.session = session
}

// ShutDown stops playback and releases the sequencer's background
// goroutine. The Engine must not be used after ShutDown returns.
func (eng *Engine) ShutDown() {
	eng.sequencer.Stop()
}
