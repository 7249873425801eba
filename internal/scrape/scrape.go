// Package scrape pulls raw class-meeting rows out of a live timetable
// page with a headless Chromium. It produces the same raw field texts a
// hand-written meetings list in the config would contain; all parsing
// stays in internal/schedule.
package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"classcal/internal/config"
)

const defaultTimeout = 30 * time.Second

// Row is the raw text of one class-meeting table row, plus the course
// header of the section it belongs to.
type Row struct {
	Course   string `json:"course"`
	ClassNbr string `json:"classNbr"`
	Comp     string `json:"comp"`
	Sched    string `json:"sched"`
	Loc      string `json:"loc"`
	Dates    string `json:"dates"`
}

// Options configures one scrape.
type Options struct {
	// URL of the class schedule page.
	URL string
	// ReadySelector must become visible before extraction runs.
	ReadySelector string
	// Timeout bounds the whole operation. Zero means defaultTimeout.
	Timeout time.Duration
}

// extractRowsJS walks the schedule page DOM: one container div per
// course, one table row per meeting, with the class number and component
// cells only filled on the first row of each component.
const extractRowsJS = `
(function() {
	var rows = [];
	var courses = document.querySelectorAll("div[id*=DERIVED_REGFRM1_DESCR]");
	courses.forEach(function(courseElem) {
		var header = courseElem.getElementsByClassName("PAGROUPDIVIDER")[0];
		var course = header ? header.textContent : "";
		courseElem.querySelectorAll("tr[id*=CLASS_MTG_VW]").forEach(function(rowElem) {
			function cell(prefix) {
				var el = rowElem.querySelector("span[id^=" + prefix + "]");
				return el ? el.textContent : "";
			}
			rows.push({
				course: course,
				classNbr: cell("DERIVED_CLS_DTL_CLASS_NBR"),
				comp: cell("MTG_COMP"),
				sched: cell("MTG_SCHED"),
				loc: cell("MTG_LOC"),
				dates: cell("MTG_DATES"),
			});
		});
	});
	return rows;
})()
`

// FetchRows navigates a headless Chromium to the timetable page, waits
// for it to finish rendering and extracts the raw meeting rows.
func FetchRows(parentCtx context.Context, opts Options) ([]Row, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("scrape: URL is required")
	}
	sel := opts.ReadySelector
	if sel == "" {
		sel = "tr[id*=CLASS_MTG_VW]"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	var rows []Row
	err := chromedp.Run(ctx,
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Evaluate(extractRowsJS, &rows),
	)
	if err != nil {
		return nil, fmt.Errorf("scrape: chromedp run failed: %w", err)
	}
	return rows, nil
}

// MeetingConfigs converts scraped rows into config meeting records. The
// class number and component cells appear once per course component and
// show a NBSP on continuation rows; those inherit the previous value.
func MeetingConfigs(rows []Row) []config.MeetingConfig {
	nbr := "0000"
	comp := "Unknown"

	out := make([]config.MeetingConfig, 0, len(rows))
	for _, r := range rows {
		if v := realCell(r.ClassNbr); v != "" {
			nbr = v
		}
		if v := realCell(r.Comp); v != "" {
			comp = v
		}
		out = append(out, config.MeetingConfig{
			ClassNbr:  nbr,
			Course:    strings.TrimSpace(r.Course),
			Component: comp,
			Schedule:  r.Sched,
			Dates:     r.Dates,
			Location:  strings.TrimSpace(r.Loc),
		})
	}
	return out
}

// realCell strips whitespace and treats a lone NBSP placeholder as empty.
func realCell(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
	return s
}
