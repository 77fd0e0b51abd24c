package section

import "github.com/nao1215/docshot/internal/model"

// DefaultSections returns the showcase's component sections in navigation
// order. Tokens are the test ids the showcase assigns to its sidebar
// entries: "nav_" followed by the lowercased telemetry name.
func DefaultSections() []model.Section {
	return []model.Section{
		{NavToken: "nav_buttons", ID: "button", DisplayName: "Buttons"},
		{NavToken: "nav_checkboxes", ID: "checkbox", DisplayName: "Checkboxes"},
		{NavToken: "nav_switches", ID: "switch", DisplayName: "Switches"},
		{NavToken: "nav_radiobuttons", ID: "radio", DisplayName: "Radio Buttons"},
		{NavToken: "nav_chips", ID: "chip", DisplayName: "Chips"},
		{NavToken: "nav_fab", ID: "fab", DisplayName: "FABs"},
		{NavToken: "nav_iconbuttons", ID: "icon_button", DisplayName: "Icon Buttons"},
		{NavToken: "nav_sliders", ID: "slider", DisplayName: "Sliders"},
		{NavToken: "nav_textfields", ID: "text_field", DisplayName: "Text Fields"},
		{NavToken: "nav_dialogs", ID: "dialog", DisplayName: "Dialogs"},
		{NavToken: "nav_menus", ID: "menu", DisplayName: "Menus"},
		{NavToken: "nav_lists", ID: "list", DisplayName: "Lists"},
		{NavToken: "nav_cards", ID: "card", DisplayName: "Cards"},
		{NavToken: "nav_tooltips", ID: "tooltip", DisplayName: "Tooltips"},
		{NavToken: "nav_snackbar", ID: "snackbar", DisplayName: "Snackbars"},
		{NavToken: "nav_tabs", ID: "tabs", DisplayName: "Tabs"},
		{NavToken: "nav_progress", ID: "progress", DisplayName: "Progress"},
		{NavToken: "nav_badges", ID: "badge", DisplayName: "Badges"},
		{NavToken: "nav_dividers", ID: "divider", DisplayName: "Dividers"},
	}
}
