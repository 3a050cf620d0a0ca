package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/bartr/internal/browser"
	"github.com/naveenspark/bartr/internal/deck"
	"github.com/naveenspark/bartr/internal/logging"
	"github.com/naveenspark/bartr/pkg/client"
	"github.com/naveenspark/bartr/pkg/domain"
)

// swipeItemsLoadedMsg carries the candidate list for load number seq.
type swipeItemsLoadedMsg struct {
	seq   int
	items []domain.Item
	err   error
}

// swipeResultMsg reports a swipe POST made against deck generation gen.
type swipeResultMsg struct {
	gen    int
	itemID int
	dir    domain.Direction
	err    error
}

type openResultMsg struct{ err error }

type swipeModel struct {
	client    *client.Client
	log       logging.Logger
	open      func(url string) error
	deck      deck.Deck
	gen       int // bumped each time a loaded list replaces the deck
	seq       int
	loading   bool
	inFlight  bool
	statusMsg string
	statusErr bool
	width     int
}

func newSwipeModel(c *client.Client, log logging.Logger) swipeModel {
	return swipeModel{
		client: c,
		log:    log.With("view", "swipe"),
		open:   browser.Open,
	}
}

// load fetches the candidate list. Any earlier load still in flight
// becomes stale.
func (m *swipeModel) load() tea.Cmd {
	m.seq++
	m.loading = true
	seq, c := m.seq, m.client
	return func() tea.Msg {
		items, err := c.ListItems(context.Background(), true)
		return swipeItemsLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m swipeModel) Update(msg tea.Msg) (swipeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case swipeItemsLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.log.Error(context.Background(), "load swipe items", "err", msg.err)
			m.setStatus(fmt.Sprintf("couldn't load items: %v", msg.err), true)
			return m, nil
		}
		m.deck = deck.New(msg.items)
		m.gen++
		// A reload discards the deck any in-flight swipe was made against.
		m.inFlight = false
		return m, nil

	case swipeResultMsg:
		// A failed reload keeps the deck, so its swipe result still lands.
		if msg.gen != m.gen {
			return m, nil
		}
		m.inFlight = false
		m.deck.Advance()
		if msg.err != nil {
			m.log.Error(context.Background(), "swipe", "item_id", msg.itemID, "direction", msg.dir, "err", msg.err)
			m.setStatus(fmt.Sprintf("swipe not recorded: %v", msg.err), true)
		}
		return m, nil

	case openResultMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("open failed: %v", msg.err), true)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m swipeModel) handleKey(msg tea.KeyMsg) (swipeModel, tea.Cmd) {
	switch msg.String() {
	case "h", "left", "x":
		return m.swipe(domain.DirectionLeft)
	case "l", "right", "enter":
		return m.swipe(domain.DirectionRight)
	case "o":
		item, err := m.deck.Current()
		if err != nil {
			return m, nil
		}
		if item.ImageURL == "" {
			m.setStatus("this item has no image", false)
			return m, nil
		}
		open, url := m.open, item.ImageURL
		return m, func() tea.Msg {
			return openResultMsg{err: open(url)}
		}
	case "r":
		m.setStatus("", false)
		cmd := m.load()
		return m, cmd
	}
	return m, nil
}

// swipe posts a verdict on the current item. The deck advances when the
// result arrives, whatever it is. Keys pressed while a POST is in flight
// are dropped so requests leave in order and each advances exactly once.
func (m swipeModel) swipe(dir domain.Direction) (swipeModel, tea.Cmd) {
	if m.inFlight || m.loading {
		return m, nil
	}
	item, err := m.deck.Current()
	if err != nil {
		return m, nil
	}
	m.inFlight = true
	m.setStatus("", false)
	gen, c := m.gen, m.client
	return m, func() tea.Msg {
		_, err := c.CreateSwipe(context.Background(), item.ID, dir)
		return swipeResultMsg{gen: gen, itemID: item.ID, dir: dir, err: err}
	}
}

func (m *swipeModel) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

func (m swipeModel) View() string {
	var b strings.Builder

	if m.loading && m.deck.Len() == 0 {
		b.WriteString("\n  " + dimStyle.Render("loading items...") + "\n")
		return b.String()
	}

	item, err := m.deck.Current()
	if err != nil {
		b.WriteString("\n  " + selectedStyle.Render("No more items!") + "\n")
		b.WriteString("  " + dimStyle.Render("Check back later for new items.") + "\n")
		if m.statusMsg != "" {
			b.WriteString("\n  " + statusLine(m.statusMsg, m.statusErr) + "\n")
		}
		return b.String()
	}

	var card strings.Builder
	card.WriteString(metaStyle.Render("Posted by "+orDefault(item.OwnerName, "someone")) + "\n")
	card.WriteString(titleStyle.Render(oneLine(item.Title)) + "\n")
	if item.Category != "" {
		card.WriteString(categoryStyle.Render(item.Category) + "\n")
	}
	card.WriteString("\n" + normalStyle.Render(orDefault(item.Description, "No description provided")) + "\n")
	if item.ImageURL != "" {
		card.WriteString("\n" + dimStyle.Render("image: "+truncStr(item.ImageURL, 60)) + "  " + helpEntry("o", "open"))
	} else {
		card.WriteString("\n" + dimStyle.Render("Image of a "+orDefault(item.Category, "thing")))
	}
	b.WriteString(cardStyle(m.width, true).Render(card.String()) + "\n")

	counter := fmt.Sprintf("%d of %d", m.deck.Index()+1, m.deck.Len())
	b.WriteString("  " + passStyle.Render("✕ pass") + "   " + likeStyle.Render("♥ like") + "   " + metaStyle.Render(counter) + "\n")

	if m.inFlight {
		b.WriteString("\n  " + dimStyle.Render("sending...") + "\n")
	} else if m.statusMsg != "" {
		b.WriteString("\n  " + statusLine(m.statusMsg, m.statusErr) + "\n")
	}
	return b.String()
}
