package layout

import (
	"go.uber.org/zap"

	rdoerrors "github.com/a3tai/mcp-rdo-report/internal/rdo/errors"
	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// Paginate lays out every day as three page blocks in day order. Only the very
// first block of the document shares the initial page; every other block starts
// a new one.
func (l *Layouter) Paginate(days []report.DayRecord) []PageBlock {
	blocks := make([]PageBlock, 0, len(days)*SheetsPerDay)
	for i, day := range days {
		for s := 0; s < SheetsPerDay; s++ {
			sheet := Sheet(s)
			block := PageBlock{
				DayIndex: i,
				Sheet:    sheet,
				NewPage:  len(blocks) > 0,
				Sections: l.Layout(PageFor(day, sheet), ContentHeight),
			}
			for _, p := range block.Sections {
				if p.Overflow {
					l.logger.Warn("section content truncated",
						zap.Int("day", i),
						zap.String("date", day.Date),
						zap.Stringer("sheet", sheet),
						zap.Stringer("section", p.Kind))
				}
			}
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// Overflows lists every truncated section of the blocks as a LayoutOverflow problem
func Overflows(blocks []PageBlock) []*rdoerrors.RDOError {
	var out []*rdoerrors.RDOError
	for _, b := range blocks {
		for _, p := range b.Sections {
			if !p.Overflow {
				continue
			}
			err := rdoerrors.Newf(rdoerrors.KindLayoutOverflow, "%s content truncated", p.Kind)
			if p.Needed > p.Height {
				err = rdoerrors.Newf(rdoerrors.KindLayoutOverflow,
					"%s content truncated (needs %.1f mm, has %.1f mm)", p.Kind, p.Needed, p.Height)
			}
			out = append(out, err.WithContext(b.Sheet.String()+" sheet").WithDay(b.DayIndex))
		}
	}
	return out
}

// Fit keeps the first n items and reports how many were dropped
func Fit[T any](items []T, n int) ([]T, int) {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items, 0
	}
	return items[:n], len(items) - n
}

// SplitColumn spreads roster lines over the two sub-columns of a labor column:
// lines 0..rows-1 on the left, the next rows on the right; the rest is dropped.
func SplitColumn(items []report.RosterLineItem, rows int) (left, right []report.RosterLineItem, dropped int) {
	left, rest := items, []report.RosterLineItem(nil)
	if len(items) > rows {
		left, rest = items[:rows], items[rows:]
	}
	right, dropped = Fit(rest, rows)
	return left, right, dropped
}
