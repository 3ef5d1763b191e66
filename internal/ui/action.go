package ui

import "fmt"

// ActionKind enumerates the user intents a page can produce.
type ActionKind int

// Action kinds.
const (
	ActionNavigateToEpicDetail ActionKind = iota + 1
	ActionNavigateToStoryDetail
	ActionNavigateToPreviousPage
	ActionCreateEpic
	ActionCreateStory
	ActionUpdateEpicStatus
	ActionUpdateStoryStatus
	ActionDeleteEpic
	ActionDeleteStory
	ActionExit
)

var actionNames = map[ActionKind]string{
	ActionNavigateToEpicDetail:   "NavigateToEpicDetail",
	ActionNavigateToStoryDetail:  "NavigateToStoryDetail",
	ActionNavigateToPreviousPage: "NavigateToPreviousPage",
	ActionCreateEpic:             "CreateEpic",
	ActionCreateStory:            "CreateStory",
	ActionUpdateEpicStatus:       "UpdateEpicStatus",
	ActionUpdateStoryStatus:      "UpdateStoryStatus",
	ActionDeleteEpic:             "DeleteEpic",
	ActionDeleteStory:            "DeleteStory",
	ActionExit:                   "Exit",
}

// String returns the kind name.
func (k ActionKind) String() string {
	if n, ok := actionNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is produced by Page.HandleInput and consumed by the navigator.
// EpicID and StoryID are set only for the kinds that carry them.
type Action struct {
	Kind    ActionKind
	EpicID  uint32
	StoryID uint32
}

// String renders the action with the ids its kind carries.
func (a Action) String() string {
	switch a.Kind {
	case ActionNavigateToEpicDetail, ActionCreateStory, ActionUpdateEpicStatus, ActionDeleteEpic:
		return fmt.Sprintf("%s(epic=%d)", a.Kind, a.EpicID)
	case ActionUpdateStoryStatus:
		return fmt.Sprintf("%s(story=%d)", a.Kind, a.StoryID)
	case ActionNavigateToStoryDetail, ActionDeleteStory:
		return fmt.Sprintf("%s(epic=%d, story=%d)", a.Kind, a.EpicID, a.StoryID)
	default:
		return a.Kind.String()
	}
}
