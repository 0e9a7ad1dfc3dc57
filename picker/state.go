package picker

// State is the current step of the slot picker.
type State int

const (
	// StateNavigate waits for the user to move the cursor or choose a slot
	StateNavigate State = iota
	// StateDispatch decides what confirming the current slot means
	StateDispatch
	// StatePreview loads the slot and runs one frame of it
	StatePreview
	// StateShowPreview shows the previewed frame with a confirm prompt
	StateShowPreview
	// StatePerformAction saves, loads or deletes the slot
	StatePerformAction
	// StateShowLoadError shows why a preview or load failed
	StateShowLoadError
	// StateShowSaveError shows why a save failed
	StateShowSaveError
	// StateTerminate is final; the picker is done
	StateTerminate
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateNavigate:
		return "Navigate"
	case StateDispatch:
		return "Dispatch"
	case StatePreview:
		return "Preview"
	case StateShowPreview:
		return "ShowPreview"
	case StatePerformAction:
		return "PerformAction"
	case StateShowLoadError:
		return "ShowLoadError"
	case StateShowSaveError:
		return "ShowSaveError"
	case StateTerminate:
		return "Terminate"
	default:
		return "Unknown"
	}
}

// waitsForInput reports whether the state only changes on user input.
func (s State) waitsForInput() bool {
	switch s {
	case StateNavigate, StateShowPreview, StateShowLoadError, StateShowSaveError:
		return true
	}
	return false
}

// Mode selects what confirming a slot does for one picker invocation.
type Mode int

const (
	ModeSave Mode = iota
	ModeLoad
	ModeDelete
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeSave:
		return "Save"
	case ModeLoad:
		return "Load"
	case ModeDelete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Result is how the picker ended.
type Result int

const (
	// ResultNone means the picker is still running
	ResultNone Result = iota
	// ResultLoaded means a slot was loaded and is now the live state
	ResultLoaded
	// ResultCancelled means the picker closed without loading; any saves or
	// deletes made are kept and the pre-picker state is live again
	ResultCancelled
)

// String returns the string representation of the result
func (r Result) String() string {
	switch r {
	case ResultNone:
		return "None"
	case ResultLoaded:
		return "Loaded"
	case ResultCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// action is the operation a confirmed slot will perform.
type action int

const (
	actionSave action = iota
	actionLoad
	actionDelete
)

// actionFor maps a picker mode to its confirm action.
func actionFor(m Mode) action {
	switch m {
	case ModeLoad:
		return actionLoad
	case ModeDelete:
		return actionDelete
	default:
		return actionSave
	}
}
