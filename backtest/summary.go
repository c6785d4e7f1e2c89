package backtest

import (
	"fmt"
	"io"
	"time"
)

// Summary describes a finished run for printing.
type Summary struct {
	RunID    string
	Strategy string
	Symbol   string
	UnitSize int64
	Policy   RejectPolicy

	Start time.Time
	End   time.Time
	Bars  int

	StartCash   float64
	FinalCash   float64
	FinalPos    int64
	FinalEquity float64

	Orders   int
	Filled   int
	Rejected int

	Metrics
}

// Summarize builds a Summary from a result and the run's starting cash.
func Summarize(r Result, startCash float64) Summary {
	s := Summary{
		Bars:      r.Len(),
		StartCash: startCash,
		Orders:    len(r.Orders),
		Filled:    r.Filled(),
		Rejected:  r.Rejected(),
		Metrics:   r.Metrics(),
	}
	if n := r.Len(); n > 0 {
		s.Start = r.Times[0]
		s.End = r.Times[n-1]
		s.FinalCash = r.Cash[n-1]
		s.FinalPos = r.Position[n-1]
		s.FinalEquity = r.Equity[n-1]
	} else {
		s.FinalCash = startCash
		s.FinalEquity = startCash
	}
	return s
}

func (s Summary) NetPL() float64 { return s.FinalEquity - s.StartCash }

func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	if s.RunID != "" {
		fmt.Fprintf(w, "Run ID:        %s\n", s.RunID)
	}
	fmt.Fprintf(w, "Strategy:      %s\n", s.Strategy)
	if s.Symbol != "" {
		fmt.Fprintf(w, "Symbol:        %s\n", s.Symbol)
	}
	fmt.Fprintf(w, "Unit Size:     %d\n", s.UnitSize)
	fmt.Fprintf(w, "On Reject:     %s\n", s.Policy)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	if s.Bars > 0 {
		fmt.Fprintf(w, "Start:         %s\n", s.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "End:           %s\n", s.End.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Bars:          %d\n", s.Bars)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Orders")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Submitted:     %d\n", s.Orders)
	fmt.Fprintf(w, "Filled:        %d\n", s.Filled)
	fmt.Fprintf(w, "Rejected:      %d\n", s.Rejected)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Cash:    %.2f\n", s.StartCash)
	fmt.Fprintf(w, "End Cash:      %.2f\n", s.FinalCash)
	fmt.Fprintf(w, "End Position:  %d\n", s.FinalPos)
	fmt.Fprintf(w, "End Equity:    %.2f\n", s.FinalEquity)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", s.NetPL())
	fmt.Fprintf(w, "Return:        %.2f%%\n", s.TotalReturn*100)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", s.MaxDrawdown*100)
	fmt.Fprintf(w, "Sharpe:        %.2f\n", s.SharpeRatio)

	fmt.Fprintln(w)
}
