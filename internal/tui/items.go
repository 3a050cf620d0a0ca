package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/bartr/internal/logging"
	"github.com/naveenspark/bartr/pkg/client"
	"github.com/naveenspark/bartr/pkg/domain"
)

type itemsTab int

const (
	itemsAdd itemsTab = iota
	itemsMine
)

type itemField int

const (
	fieldTitle itemField = iota
	fieldDescription
	fieldCategory
	fieldImageURL
	numItemFields
)

// -- messages --

type myItemsLoadedMsg struct {
	seq   int
	items []domain.Item
	err   error
}

type itemCreatedMsg struct {
	item *domain.Item
	err  error
}

// itemNoticeDoneMsg fires when the "item added" notice with the given id
// has been up for the notice delay.
type itemNoticeDoneMsg struct{ id int }

type itemDeletedMsg struct {
	id  int
	err error
}

// -- model --

type itemsModel struct {
	client *client.Client
	log    logging.Logger
	userID int
	delay  time.Duration
	tab    itemsTab
	width  int

	// add form
	fields     [numItemFields]string
	focus      itemField
	editing    bool
	submitting bool
	formErr    string
	notice     string
	noticeID   int

	// mine
	mine       []domain.Item
	seq        int
	loading    bool
	loaded     bool
	cursor     int
	confirming bool
	statusMsg  string
	statusErr  bool
}

func newItemsModel(c *client.Client, userID int, noticeDelay time.Duration, log logging.Logger) itemsModel {
	return itemsModel{
		client: c,
		log:    log.With("view", "items"),
		userID: userID,
		delay:  noticeDelay,
	}
}

// showAdd switches to the add sub-tab with the form unfocused.
func (m *itemsModel) showAdd() {
	m.tab = itemsAdd
	m.editing = false
	m.confirming = false
}

// showMine switches to the mine sub-tab and reloads it.
func (m *itemsModel) showMine() tea.Cmd {
	m.tab = itemsMine
	m.editing = false
	return m.load()
}

// load fetches all items and keeps the ones owned by the current user.
func (m *itemsModel) load() tea.Cmd {
	m.seq++
	m.loading = true
	seq, c, uid := m.seq, m.client, m.userID
	return func() tea.Msg {
		all, err := c.ListItems(context.Background(), false)
		if err != nil {
			return myItemsLoadedMsg{seq: seq, err: err}
		}
		return myItemsLoadedMsg{seq: seq, items: domain.OwnedBy(all, uid)}
	}
}

func (m itemsModel) Update(msg tea.Msg) (itemsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case myItemsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.log.Error(context.Background(), "load my items", "err", msg.err)
			m.setStatus(fmt.Sprintf("couldn't load your items: %v", msg.err), true)
			return m, nil
		}
		m.mine = msg.items
		m.loaded = true
		if m.cursor >= len(m.mine) {
			m.cursor = max(len(m.mine)-1, 0)
		}
		return m, nil

	case itemCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.log.Error(context.Background(), "add item", "err", msg.err)
			if text, ok := client.ErrorMessage(msg.err); ok {
				m.formErr = text
			} else {
				m.formErr = "Couldn't add item. Please try again."
			}
			return m, nil
		}
		m.fields = [numItemFields]string{}
		m.focus = fieldTitle
		m.editing = false
		m.noticeID++
		m.notice = "Item added successfully!"
		id := m.noticeID
		return m, tea.Tick(m.delay, func(time.Time) tea.Msg {
			return itemNoticeDoneMsg{id: id}
		})

	case itemNoticeDoneMsg:
		if msg.id != m.noticeID || m.notice == "" {
			return m, nil
		}
		m.notice = ""
		cmd := m.showMine()
		return m, cmd

	case itemDeletedMsg:
		if msg.err != nil {
			m.log.Error(context.Background(), "delete item", "item_id", msg.id, "err", msg.err)
			m.setStatus(fmt.Sprintf("delete failed: %v", msg.err), true)
			return m, nil
		}
		m.setStatus("item deleted", false)
		cmd := m.load()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.tab == itemsAdd {
			return m.handleAddKey(msg)
		}
		return m.handleMineKey(msg)
	}
	return m, nil
}

func (m itemsModel) handleAddKey(msg tea.KeyMsg) (itemsModel, tea.Cmd) {
	if !m.editing {
		switch msg.String() {
		case "enter", "i":
			m.editing = true
			m.formErr = ""
		case "m":
			cmd := m.showMine()
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.editing = false
	case "tab", "down":
		m.focus = (m.focus + 1) % numItemFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numItemFields) % numItemFields
	case "enter":
		if m.focus < numItemFields-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	default:
		f := &m.fields[m.focus]
		*f = editKey(*f, msg)
	}
	return m, nil
}

func (m itemsModel) submit() (itemsModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	title := strings.TrimSpace(m.fields[fieldTitle])
	if title == "" {
		m.formErr = "title is required"
		m.focus = fieldTitle
		return m, nil
	}

	m.formErr = ""
	m.submitting = true
	req := client.CreateItemRequest{
		Title:       title,
		Description: strings.TrimSpace(m.fields[fieldDescription]),
		Category:    strings.TrimSpace(m.fields[fieldCategory]),
		ImageURL:    strings.TrimSpace(m.fields[fieldImageURL]),
	}
	c := m.client
	return m, func() tea.Msg {
		item, err := c.CreateItem(context.Background(), req)
		return itemCreatedMsg{item: item, err: err}
	}
}

func (m itemsModel) handleMineKey(msg tea.KeyMsg) (itemsModel, tea.Cmd) {
	if m.confirming {
		switch msg.String() {
		case "y", "Y":
			m.confirming = false
			if m.cursor >= len(m.mine) {
				return m, nil
			}
			id := m.mine[m.cursor].ID
			c := m.client
			return m, func() tea.Msg {
				return itemDeletedMsg{id: id, err: c.DeleteItem(context.Background(), id)}
			}
		case "n", "N", "esc":
			m.confirming = false
		}
		return m, nil
	}

	m.setStatus("", false)
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.mine)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "d":
		if m.cursor < len(m.mine) {
			m.confirming = true
		}
	case "a":
		m.showAdd()
	case "r":
		cmd := m.load()
		return m, cmd
	}
	return m, nil
}

func (m *itemsModel) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// helpKeys returns the help bar entries for the current sub-tab state.
func (m itemsModel) helpKeys() []string {
	switch {
	case m.tab == itemsAdd && m.editing:
		return []string{helpEntry("tab", "next"), helpEntry("ctrl+s", "submit"), helpEntry("esc", "done")}
	case m.tab == itemsAdd:
		return []string{helpEntry("enter", "edit"), helpEntry("m", "my items")}
	case m.confirming:
		return []string{helpEntry("y", "delete"), helpEntry("n", "keep")}
	default:
		return []string{helpEntry("j/k", "nav"), helpEntry("d", "delete"), helpEntry("a", "add"), helpEntry("r", "reload")}
	}
}

func (m itemsModel) View() string {
	var b strings.Builder

	add, mine := dimStyle.Render("Add item"), dimStyle.Render("My items")
	if m.tab == itemsAdd {
		add = selectedStyle.Underline(true).Render("Add item")
	} else {
		mine = selectedStyle.Underline(true).Render("My items")
	}
	b.WriteString("  " + helpKeyStyle.Render("a") + " " + add + "   " + helpKeyStyle.Render("m") + " " + mine + "\n\n")

	if m.tab == itemsAdd {
		b.WriteString(m.viewForm())
	} else {
		b.WriteString(m.viewMine())
	}
	return b.String()
}

func (m itemsModel) viewForm() string {
	var b strings.Builder

	if m.notice != "" {
		b.WriteString("  " + noticeStyle.Render(m.notice) + "\n\n")
	}

	fields := [numItemFields]formField{
		{label: "title      ", value: m.fields[fieldTitle], placeholder: "required"},
		{label: "description", value: m.fields[fieldDescription], placeholder: "optional"},
		{label: "category   ", value: m.fields[fieldCategory], placeholder: "optional"},
		{label: "image url  ", value: m.fields[fieldImageURL], placeholder: "optional"},
	}
	for i, f := range fields {
		b.WriteString("  " + renderField(f, m.editing && itemField(i) == m.focus) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("adding..."))
	case m.formErr != "":
		b.WriteString("  " + errorStyle.Render(m.formErr))
	}
	return b.String()
}

func (m itemsModel) viewMine() string {
	var b strings.Builder

	switch {
	case m.loading && !m.loaded:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case len(m.mine) == 0 && m.loaded:
		b.WriteString("  " + dimStyle.Render("You haven't added any items yet.") + "\n")
	}

	for i, it := range m.mine {
		var card strings.Builder
		card.WriteString(titleStyle.Render(oneLine(it.Title)))
		if it.Category != "" {
			card.WriteString("  " + categoryStyle.Render(it.Category))
		}
		card.WriteString("\n" + normalStyle.Render(orDefault(it.Description, "No description")))
		if ts := formatTime(it.CreatedAt); ts != "" {
			card.WriteString("\n" + metaStyle.Render("listed "+ts))
		}
		b.WriteString(cardStyle(m.width, i == m.cursor).Render(card.String()) + "\n")
	}

	if m.confirming && m.cursor < len(m.mine) {
		b.WriteString("\n  " + errorStyle.Render(fmt.Sprintf("Delete %q? (y/n)", m.mine[m.cursor].Title)) + "\n")
	} else if m.statusMsg != "" {
		b.WriteString("\n  " + statusLine(m.statusMsg, m.statusErr) + "\n")
	}
	return b.String()
}
