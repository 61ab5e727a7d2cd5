package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-rdo-report/internal/layout"
	"github.com/a3tai/mcp-rdo-report/internal/report"
)

const (
	lineWeight = 0.1
	titleGray  = 224 // #E0E0E0

	left  = layout.Margin
	right = layout.Margin + layout.ContentWidth
	title = layout.TitleBarHeight
)

func (p *pass) drawBlock(b layout.PageBlock) {
	day := p.doc.Days[b.DayIndex]
	p.s.SetDrawColor(0, 0, 0)
	p.s.SetTextColor(0, 0, 0)
	p.s.SetLineWidth(lineWeight)

	for _, pl := range b.Sections {
		switch pl.Kind {
		case layout.KindHeader:
			p.drawHeader(pl, b.DayIndex)
		case layout.KindContractInfo:
			p.drawContractInfo(pl, day)
		case layout.KindWeather:
			p.drawWeather(pl, day)
		case layout.KindLegend:
			p.drawLegend(pl)
		case layout.KindLaborColumns:
			p.drawLaborColumns(pl, day)
		case layout.KindActivityTable:
			rows := day.Continuation
			if b.Sheet == layout.SheetLabor {
				rows = day.Activities
			}
			p.drawActivityTable(pl, rows, b.Sheet == layout.SheetLabor)
		case layout.KindObservations:
			p.drawObservations(pl, day.Observations)
		case layout.KindPhotos:
			p.drawPhotos(pl, day, b.DayIndex)
		case layout.KindSignatures:
			p.drawSignatures(pl, b.DayIndex)
		}
	}
}

// titleBar draws a grey bar across the content width with centred bold text
func (p *pass) titleBar(top float64, text string, size float64) {
	p.s.SetLineWidth(lineWeight)
	p.s.SetFillColor(titleGray, titleGray, titleGray)
	p.s.Rect(left, top, layout.ContentWidth, title, FillStroke)
	p.s.SetFont(StyleBold, size)
	textAt(p.s, left+layout.ContentWidth/2, top+3.5, text, AlignCenter)
}

// fitText cuts text to the longest prefix that fits width in the current font
func fitText(s Surface, text string, width float64) string {
	if s.TextWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && s.TextWidth(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

func (p *pass) drawHeader(pl layout.Placement, day int) {
	s, top := p.s, pl.Top

	s.Line(left, top, right, top)
	s.Line(left, top, left, pl.Bottom())
	s.Line(right, top, right, pl.Bottom())

	p.drawImage(p.r.opts.LogoLeft, layout.Rect{X: left - 3, Y: top + 2, W: 25, H: 12}, false, day)
	p.drawImage(p.r.opts.LogoRight, layout.Rect{
		X: layout.PageWidth - layout.Margin - 55 - 1,
		Y: top + (pl.Height-16)/2,
		W: 55,
		H: 16,
	}, false, day)

	centre := layout.PageWidth/2 - 20
	baselines := []float64{5.6, 9.1, 12.1}
	for i, line := range p.r.opts.Heading {
		if i >= len(baselines) {
			break
		}
		size := 7.0
		if i == 0 {
			size = 10
		}
		s.SetFont(StyleBold, size)
		textAt(s, centre, top+baselines[i], line, AlignCenter)
	}
}

func (p *pass) drawContractInfo(pl layout.Placement, day report.DayRecord) {
	s, c := p.s, p.doc.Contract
	top, bottom := pl.Top, pl.Bottom()
	const numberBoxW = 33.0
	mainW := layout.ContentWidth - numberBoxW
	boxX := left + mainW

	s.SetLineWidth(lineWeight)
	s.Line(left, top, right, top)
	s.Line(left, top, left, bottom)
	s.Line(boxX, top, boxX, bottom)
	s.Line(left, bottom, boxX, bottom)
	s.Line(right, top, right, bottom)
	s.Line(boxX, bottom, right, bottom)

	rowH := pl.Height / 3
	baseline := rowH - 1.5
	split := left + mainW*0.65

	s.SetFont(StyleNormal, 7)
	s.Text(left+1.5, top+baseline, "CONTRATADA: "+c.Contractor)
	s.Line(split, top, split, top+rowH)
	s.Text(split+1.5, top+baseline, "DATA: "+report.ISOToDMY(day.Date))

	s.Line(left, top+rowH, boxX, top+rowH)
	s.Text(left+1.5, top+rowH+baseline, "CONTRATO Nº: "+c.ContractNumber)
	s.Line(split, top+rowH, split, top+2*rowH)
	s.Text(split+1.5, top+rowH+baseline, "DIA DA SEMANA: "+day.Weekday)

	s.Line(left, top+2*rowH, boxX, top+2*rowH)
	segment := (mainW - 3) / 4
	counters := []string{
		"PRAZO: " + c.Deadline,
		"INÍCIO: " + c.StartDate,
		"DECORRIDOS: " + day.Elapsed,
		"RESTANTES: " + day.Remaining,
	}
	for i, text := range counters {
		s.Text(left+1.5+float64(i)*segment, top+2*rowH+baseline, fitText(s, text, segment-1))
	}

	s.SetFont(StyleBold, 8)
	textAt(s, boxX+numberBoxW/2, top+4.5, "Número:", AlignCenter)
	s.SetFont(StyleBold, 20)
	s.SetTextColor(255, 0, 0)
	textAt(s, boxX+numberBoxW/2, top+11.5, day.Number, AlignCenter)
	s.SetTextColor(0, 0, 0)
}

// splitCircle draws a circle cut by a horizontal line with one code in each half
func (p *pass) splitCircle(cx, cy, r float64, upper, lower string) {
	s := p.s
	s.SetLineWidth(lineWeight)
	s.Circle(cx, cy, r, Stroke)
	s.Line(cx-r, cy, cx+r, cy)
	s.SetFont(StyleBold, 10)
	textAt(s, cx, cy-r/2+1.8, upper, AlignCenter)
	textAt(s, cx, cy+r/2+1.8, lower, AlignCenter)
}

func (p *pass) drawWeather(pl layout.Placement, day report.DayRecord) {
	s, top, h := p.s, pl.Top, pl.Height
	const (
		modelW  = 35.0
		radius  = 6.0
		shiftDn = 0.75
	)
	panelX := left + modelW
	restW := layout.ContentWidth - modelW
	shiftsW := restW * 0.45
	obsW := restW * 0.55
	obsX := panelX + shiftsW

	s.SetFillColor(titleGray, titleGray, titleGray)
	s.Rect(left, top, modelW, title, Fill)
	s.Rect(panelX, top, restW, title, Fill)

	s.SetLineWidth(lineWeight)
	s.Line(left, top, right, top)
	s.Line(left, top+h, right, top+h)
	s.Line(left, top, left, top+h)
	s.Line(right, top, right, top+h)
	s.Line(left, top+title, right, top+title)
	s.Line(panelX, top+title, panelX, top+h)

	contentY := top + title
	contentH := h - title

	s.SetFont(StyleBold, 9)
	s.RotatedText(left+10, contentY+contentH/2+s.TextWidth("Modelo")/2, 90, "Modelo")
	s.SetFont(StyleNormal, 7)
	s.Text(left+8, contentY+contentH/3+shiftDn, "Tempo")
	s.Text(left+8, contentY+contentH/3*2+shiftDn, "Trabalho")
	p.splitCircle(panelX-3-radius, contentY+contentH/2+shiftDn, radius, "B", "N")

	s.SetFont(StyleBold, 9)
	textAt(s, panelX+shiftsW/2, top+3.5, "CONDIÇÕES CLIMÁTICAS E DE TRABALHO", AlignCenter)
	s.SetFont(StyleBold, 7)
	s.Text(obsX+1.5, top+3.2, fitText(s, fmt.Sprintf("Índice Pluviométrico: %s mm", day.Weather.Rainfall), obsW-3))

	colW := shiftsW / report.ShiftCount
	shifts, _ := layout.Fit(day.Weather.Shifts, report.ShiftCount)
	for i := 0; i < report.ShiftCount; i++ {
		var sh report.Shift
		if i < len(shifts) {
			sh = shifts[i]
		}
		cx := panelX + float64(i)*colW + colW/2

		s.SetFont(StyleBold, 7)
		textAt(s, cx, contentY+3, sh.Label, AlignCenter)
		if sh.Time != "" {
			s.SetFont(StyleNormal, 6)
			textAt(s, cx, contentY+6, sh.Time, AlignCenter)
		}
		const detailH = 7.0
		p.splitCircle(cx, contentY+detailH+(contentH-detailH)/2, radius, sh.Weather, sh.Work)
	}

	s.SetLineWidth(lineWeight)
	s.Line(obsX, contentY, obsX, top+h)

	lines := layout.Wrap(p.lay.Measurer(), "Obs: "+day.Weather.Notes, 7, obsW-3, false)
	s.SetFont(StyleNormal, 7)
	y := contentY + 3.5
	for _, line := range lines {
		if y > top+h-0.5 {
			break
		}
		s.Text(obsX+1.5, y, line)
		y += layout.LineHeight(7, 1.15)
	}
}

func (p *pass) drawLegend(pl layout.Placement) {
	s := p.s
	const prefix = "Legendas:"

	s.SetLineWidth(lineWeight)
	s.Rect(left, pl.Top, layout.ContentWidth, pl.Height, Stroke)

	lines := p.lay.LegendLines()
	y := pl.Top + layout.LegendPadY + layout.Ascent(layout.LegendFontSize)
	for i, line := range lines {
		x := left + layout.LegendPadX
		if i == 0 && strings.HasPrefix(line, prefix) {
			s.SetFont(StyleBold, layout.LegendFontSize)
			s.Text(x, y, prefix)
			x += s.TextWidth(prefix)
			line = line[len(prefix):]
		}
		s.SetFont(StyleNormal, layout.LegendFontSize)
		s.Text(x, y, line)
		y += layout.LineHeight(layout.LegendFontSize, layout.LegendLineFactor)
	}
}

func (p *pass) drawLaborColumns(pl layout.Placement, day report.DayRecord) {
	s, top, bottom := p.s, pl.Top, pl.Bottom()
	itemsTop := top + title
	itemsH := layout.LaborItemRows * layout.LaborRowHeight
	totalY := itemsTop + itemsH

	s.SetLineWidth(lineWeight)
	s.Line(left, top, left, bottom)
	s.Line(right, top, right, bottom)
	s.Line(left, bottom, right, bottom)

	cols := layout.LaborColumns()
	for idx, col := range cols {
		s.SetLineWidth(lineWeight)
		s.SetFillColor(titleGray, titleGray, titleGray)
		s.Rect(col.X, top, col.W, title, FillStroke)
		s.SetFont(StyleBold, 9)
		textAt(s, col.X+col.W/2, top+3.5, col.Title, AlignCenter)

		items := day.RosterByCategory(col.Category)
		subs := col.SubColumns()
		if col.Split {
			first, second, _ := layout.SplitColumn(items, layout.LaborItemRows)
			p.drawLaborStack(subs[0], itemsTop, first)
			p.drawLaborStack(subs[1], itemsTop, second)
			s.Line(subs[0].Right(), itemsTop, subs[0].Right(), itemsTop+itemsH)
		} else {
			kept, _ := layout.Fit(items, layout.LaborItemRows)
			p.drawLaborStack(subs[0], itemsTop, kept)
		}

		s.SetFont(StyleBold, 7)
		s.Rect(col.X, totalY, col.W, layout.LaborTotalsHeight, Stroke)
		total := col.TotalLabel + strconv.Itoa(day.Totals.Of(col.Category))
		textAt(s, col.X+col.W-2, totalY+3.5, total, AlignRight)

		if idx < len(cols)-1 {
			s.Line(col.X+col.W, top, col.X+col.W, bottom)
		}
	}
}

// drawLaborStack prints one stack of roster lines: quantity box, then label
func (p *pass) drawLaborStack(sub layout.Rect, top float64, items []report.RosterLineItem) {
	s := p.s
	const (
		qtyW     = 10.0
		namePad  = 2.0
		baseline = layout.LaborRowHeight - 1.285
	)

	for i, item := range items {
		y := top + float64(i)*layout.LaborRowHeight
		qty := ""
		if !item.IsEmpty() {
			qty = strconv.Itoa(item.Value())
		}

		s.SetFont(StyleNormal, 6)
		textAt(s, sub.X+qtyW-2, y+baseline, qty, AlignRight)
		s.Line(sub.X+qtyW, y, sub.X+qtyW, y+layout.LaborRowHeight)
		s.Text(sub.X+qtyW+namePad, y+baseline, fitText(s, item.Label, sub.W-qtyW-namePad-1))

		if i < len(items)-1 && i < layout.LaborItemRows-1 {
			s.Line(sub.X, y+layout.LaborRowHeight, sub.Right(), y+layout.LaborRowHeight)
		}
	}
}

func (p *pass) drawActivityTable(pl layout.Placement, rows []report.ActivityRow, firstSheet bool) {
	s := p.s
	const (
		headerH  = 5.0
		fontSize = layout.ActivityFontSize
	)

	p.titleBar(pl.Top, "DESCRIÇÃO DAS ATIVIDADES EXECUTADAS", 8)

	headY := pl.Top + title
	cols := layout.ActivityColumns()
	s.SetFillColor(titleGray, titleGray, titleGray)
	s.Rect(left, headY, layout.ContentWidth, headerH, FillStroke)
	s.SetFont(StyleBold, 7)
	for i, c := range cols {
		textAt(s, c.X+c.W/2, headY+3.5, fitText(s, c.Title, c.W-2), AlignCenter)
		if i < len(cols)-1 {
			s.Line(c.X+c.W, headY, c.X+c.W, headY+headerH)
		}
	}

	bodyY := headY + headerH
	visible := layout.VisibleRows(pl)
	rows, _ = layout.Fit(rows, visible)
	lh := layout.LineHeight(fontSize, 1.15)

	for r := 0; r < visible; r++ {
		rowY := bodyY + float64(r)*pl.RowHeight
		var row report.ActivityRow
		if r < len(rows) {
			row = rows[r]
		}
		cells := []string{row.Location, row.Type, row.Service, row.Status, row.Notes}

		for i, c := range cols {
			lines := layout.Wrap(p.lay.Measurer(), cells[i], fontSize, c.W-2, false)
			block := 0.0
			if len(lines) > 0 {
				block = float64(len(lines)-1)*lh + fontSize*layout.PointToMM
			}
			y := rowY + (pl.RowHeight-block)/2 + layout.Ascent(fontSize)
			limit := rowY + pl.RowHeight - fontSize*layout.PointToMM*0.2

			s.SetFont(StyleNormal, fontSize)
			for _, line := range lines {
				if y >= limit {
					break
				}
				s.Text(c.X+1, y, line)
				y += lh
			}
			if i < len(cols)-1 {
				s.Line(c.X+c.W, rowY, c.X+c.W, rowY+pl.RowHeight)
			}
		}

		if !(firstSheet && r == visible-1) {
			s.Line(left, rowY+pl.RowHeight, right, rowY+pl.RowHeight)
		}
	}

	end := bodyY + float64(visible)*pl.RowHeight
	s.Line(left, headY, left, end)
	s.Line(right, headY, right, end)
}

func (p *pass) drawObservations(pl layout.Placement, text string) {
	s := p.s
	pad := layout.ObservationsPadding

	p.titleBar(pl.Top, "OUTRAS OBSERVAÇÕES E COMENTÁRIOS", 9)

	boxTop := pl.Top + title
	boxH := max(pl.Height-title, 0)
	s.SetLineWidth(lineWeight)
	s.Rect(left, boxTop, layout.ContentWidth, boxH, Stroke)
	for y := boxTop + layout.ObservationsRuleStep; y < boxTop+boxH-0.5; y += layout.ObservationsRuleStep {
		s.Line(left, y, right, y)
	}

	lines := p.lay.ObservationLines(text)
	s.SetFont(StyleNormal, layout.ObservationsFontSize)
	y := boxTop + pad + layout.Ascent(layout.ObservationsFontSize)
	for _, line := range lines {
		s.Text(left+pad, y, line)
		y += layout.LineHeight(layout.ObservationsFontSize, layout.ObservationsLineFactor)
		if y > boxTop+boxH-pad {
			break
		}
	}
}

func (p *pass) drawPhotos(pl layout.Placement, day report.DayRecord, dayIndex int) {
	s := p.s
	const (
		captionSize   = 6.5
		captionFactor = 1.1
	)

	p.titleBar(pl.Top, "RELATÓRIO FOTOGRÁFICO", 9)
	s.Line(left, pl.Top+title, left, pl.Bottom())
	s.Line(right, pl.Top+title, right, pl.Bottom())

	photos, _ := layout.Fit(day.Photos, report.PhotoSlots)
	pad := layout.PhotoImagePadding
	for i, cell := range layout.PhotoCells(pl.Top) {
		if cell.Bottom() > pl.Bottom()+1e-9 {
			break
		}
		var photo report.Photo
		if i < len(photos) {
			photo = photos[i]
		}

		frame := layout.Rect{X: cell.X + pad, Y: cell.Y + pad, W: cell.W - 2*pad, H: layout.PhotoFrameHeight - 2*pad}
		p.drawImage(photo.Path, frame, true, dayIndex)
		s.SetLineWidth(lineWeight)
		s.Rect(frame.X, frame.Y, frame.W, frame.H, Stroke)

		baseline := cell.Y + layout.PhotoFrameHeight + 1.5 + layout.Ascent(captionSize)
		label := fmt.Sprintf("Foto %02d:", i+1)
		s.SetFont(StyleBold, captionSize)
		s.Text(cell.X+1.5, baseline, label)
		labelW := s.TextWidth(label)

		if strings.TrimSpace(photo.Caption) == "" {
			continue
		}
		textX := cell.X + 1.5 + labelW + 1
		lines := layout.Wrap(p.lay.Measurer(), photo.Caption, captionSize, cell.W-(1.5+labelW+1+1.5), false)
		limit := cell.Bottom() - captionSize*layout.PointToMM*0.1
		s.SetFont(StyleNormal, captionSize)
		y := baseline
		for _, line := range lines {
			if y >= limit {
				break
			}
			s.Text(textX, y, line)
			y += layout.LineHeight(captionSize, captionFactor)
		}
	}
}

func (p *pass) drawSignatures(pl layout.Placement, dayIndex int) {
	s, top, bottom := p.s, pl.Top, pl.Bottom()

	s.SetLineWidth(lineWeight)
	s.Line(left, top, right, top)
	s.Line(left, top, left, bottom)
	s.Line(right, top, right, bottom)
	s.Line(left, bottom, right, bottom)

	s.SetFillColor(titleGray, titleGray, titleGray)
	s.Rect(left, top, layout.ContentWidth, title, FillStroke)
	s.SetFont(StyleBold, 8)
	textAt(s, left+layout.ContentWidth/2, top+title/2+1.5, "ASSINATURAS", AlignCenter)

	areaW := layout.ContentWidth / 2
	lineW := areaW * 0.7
	contentTop := top + title
	imgH := (pl.Height - title) * 0.55
	imgX := left + (areaW-lineW)/2
	imgY := contentTop + 1.5

	p.drawImage(p.doc.Contract.SignatureImage, layout.Rect{X: imgX, Y: imgY, W: lineW, H: imgH}, false, dayIndex)

	lineY := imgY + imgH + 2
	labels := p.r.opts.SignatureLabels
	s.SetLineWidth(lineWeight)
	s.SetFont(StyleNormal, 7)
	for i := 0; i < 2; i++ {
		areaX := left + float64(i)*areaW
		x := areaX + (areaW-lineW)/2
		s.Line(x, lineY, x+lineW, lineY)
		textAt(s, areaX+areaW/2, lineY+3.5, labels[i], AlignCenter)
	}
}
