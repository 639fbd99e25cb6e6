package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Rorical/CircuiTech/internal/models"
	"github.com/Rorical/CircuiTech/ui/styles"
)

const (
	emptyBomHint    = "Your generated components will appear here. Start a conversation with the Co-Pilot to build an embedded BOM."
	emptyPinMapHint = "No pin assignments yet."
)

// BomSummary is the header badge text, e.g. "3 parts · $4.20".
func BomSummary(items []models.BomItem) string {
	return fmt.Sprintf("%d parts · $%.2f", len(items), models.BomTotal(items))
}

func RenderHeader(items []models.BomItem, width int) string {
	title := "CircuiTech Workspace"
	badge := styles.BadgeStyle().Render(BomSummary(items))
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(badge), 1)
	return styles.HeaderStyle(width).Render(title + strings.Repeat(" ", gap) + badge)
}

func RenderTabs(active models.View) string {
	bom, pinMap := styles.TabStyle(), styles.TabStyle()
	if active == models.ViewPinMap {
		pinMap = styles.ActiveTabStyle()
	} else {
		bom = styles.ActiveTabStyle()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, bom.Render("BOM"), pinMap.Render("Pin Map"))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorderStyle()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle()
			}
			return styles.TableCellStyle()
		})
}

func RenderBomTable(items []models.BomItem) string {
	if len(items) == 0 {
		return styles.HintStyle().Render(emptyBomHint)
	}

	t := newTable("#", "Part Number", "Manufacturer", "Description", "Qty", "Unit Cost", "Line Total")
	for i, item := range items {
		manufacturer := item.Manufacturer
		if manufacturer == "" {
			manufacturer = "Unknown"
		}
		t.Row(
			strconv.Itoa(i+1),
			item.PartNumber,
			manufacturer,
			item.Description,
			strconv.Itoa(item.Quantity),
			fmt.Sprintf("$%.2f", item.EstimatedCost),
			fmt.Sprintf("$%.2f", item.LineTotal()),
		)
	}
	return t.Render() + "\n" + styles.HintStyle().Render("ctrl+p: Generate Pin Map")
}

func RenderPinMapTable(conns []models.Connection, loading bool) string {
	if loading {
		return styles.HintStyle().Render("Mapping pins...")
	}
	if len(conns) == 0 {
		return styles.HintStyle().Render(emptyPinMapHint)
	}

	signal := styles.SignalStyle()
	t := newTable("Source", "Pin", "Target", "Pin", "Signal", "Description")
	for _, c := range conns {
		t.Row(c.SourcePart, c.SourcePin, c.TargetPart, c.TargetPin, signal.Render(c.SignalType), c.Description)
	}
	return t.Render()
}

// RenderDashboard draws the header above the active tab.
func RenderDashboard(appModel ViewModel) string {
	var b strings.Builder
	b.WriteString(RenderHeader(appModel.Bom, appModel.Width) + "\n")
	b.WriteString(RenderTabs(appModel.ActiveView) + "\n\n")
	if appModel.ActiveView == models.ViewPinMap {
		b.WriteString(RenderPinMapTable(appModel.Connections, appModel.PinMapLoading))
	} else {
		b.WriteString(RenderBomTable(appModel.Bom))
	}
	return b.String()
}

// ViewModel is the slice of UI state the dashboard needs.
type ViewModel struct {
	Bom           []models.BomItem
	Connections   []models.Connection
	ActiveView    models.View
	PinMapLoading bool
	Width         int
}
