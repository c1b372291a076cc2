package discord

// Interaction wire format, the subset this service handles. See the Discord
// interactions documentation for the full shape.

// InteractionType identifies the kind of incoming interaction.
type InteractionType int

const (
	InteractionPing               InteractionType = 1
	InteractionApplicationCommand InteractionType = 2
	InteractionMessageComponent   InteractionType = 3
)

// Interaction is an incoming interaction request.
type Interaction struct {
	ID     string          `json:"id"`
	Type   InteractionType `json:"type"`
	Data   InteractionData `json:"data"`
	Member *Member         `json:"member,omitempty"`
	User   *User           `json:"user,omitempty"`
}

// InteractionData carries command or component details.
type InteractionData struct {
	Name          string   `json:"name,omitempty"`
	CustomID      string   `json:"custom_id,omitempty"`
	ComponentType int      `json:"component_type,omitempty"`
	Values        []string `json:"values,omitempty"`
}

// Member is a guild member; User is set when invoked from a DM.
type Member struct {
	User *User `json:"user,omitempty"`
}

// User identifies the invoking user.
type User struct {
	ID string `json:"id"`
}

// UserID returns the invoking user's ID, from the guild member when present.
func (i *Interaction) UserID() string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// CallbackType identifies the kind of interaction response.
type CallbackType int

const (
	CallbackPong           CallbackType = 1
	CallbackChannelMessage CallbackType = 4
)

// FlagEphemeral makes a response visible only to the invoking user.
const FlagEphemeral = 1 << 6

// Component types.
const (
	ComponentActionRow    = 1
	ComponentStringSelect = 3
)

// InteractionResponse is the reply to an interaction.
type InteractionResponse struct {
	Type CallbackType  `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// ResponseData is the message body of an interaction response.
type ResponseData struct {
	Content    string      `json:"content,omitempty"`
	Flags      int         `json:"flags,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// Component is an action row or a string select menu.
type Component struct {
	Type        int            `json:"type"`
	CustomID    string         `json:"custom_id,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	MinValues   *int           `json:"min_values,omitempty"`
	MaxValues   int            `json:"max_values,omitempty"`
	Options     []SelectOption `json:"options,omitempty"`
	Components  []Component    `json:"components,omitempty"`
}

// SelectOption is one selectable entry in a string select menu.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
