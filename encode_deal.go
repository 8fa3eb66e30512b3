package waterfall

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeDeal decodes a deal from a stream of JSONL data: one JSON object per
// line, identified by its "command" property. Later lines may override the
// timeline or promote of earlier ones; flow and fee lines accumulate.
func DecodeDeal(r io.Reader) (*Deal, error) {
	deal := NewDeal("")
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Command {
		case CmdTimeline:
			var temp struct {
				Start    Date   `json:"start"`
				Months   int    `json:"months"`
				Currency string `json:"currency"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, fmt.Errorf("invalid timeline line: %w", err)
			}
			deal.Timeline = NewTimeline(temp.Start, temp.Months)
			if temp.Currency != "" {
				deal.Currency = temp.Currency
			}

		case CmdPartner:
			var p Partner
			if err := json.Unmarshal(lineBytes, &p); err != nil {
				return nil, fmt.Errorf("invalid partner line: %w", err)
			}
			deal.Partners = append(deal.Partners, p)

		case CmdPromote:
			var temp struct {
				Method DistributionMethod `json:"method"`
				Pref   Rate               `json:"pref"`
				Tiers  []Tier             `json:"tiers"`
				Final  Rate               `json:"final"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, fmt.Errorf("invalid promote line: %w", err)
			}
			method, err := ParseDistributionMethod(string(temp.Method))
			if err != nil {
				return nil, err
			}
			deal.Method = method
			if method == Waterfall {
				deal.Promote = &Promote{Pref: temp.Pref, Tiers: temp.Tiers, Final: temp.Final}
			}

		case CmdContribute, CmdDraw, CmdDistribute:
			var temp struct {
				Date   Date            `json:"date"`
				Amount decimal.Decimal `json:"amount"`
				Memo   string          `json:"memo"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, fmt.Errorf("invalid %s line: %w", identifier.Command, err)
			}
			deal.Flows = append(deal.Flows, FlowEntry{
				Kind:   identifier.Command,
				Date:   temp.Date,
				Amount: M(temp.Amount, deal.Currency),
				Memo:   temp.Memo,
			})

		case CmdFee:
			var temp struct {
				Name         string            `json:"name"`
				Category     string            `json:"category"`
				Payee        string            `json:"payee"`
				Amount       decimal.Decimal   `json:"amount"`
				Timing       FeeTiming         `json:"timing"`
				UpfrontShare Rate              `json:"upfrontShare"`
				Custom       []decimal.Decimal `json:"custom"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, fmt.Errorf("invalid fee line: %w", err)
			}
			fee := FeeSchedule{
				Name:         temp.Name,
				Category:     temp.Category,
				Payee:        temp.Payee,
				Amount:       M(temp.Amount, deal.Currency),
				Timing:       temp.Timing,
				UpfrontShare: temp.UpfrontShare,
			}
			for _, v := range temp.Custom {
				fee.Custom = append(fee.Custom, M(v, deal.Currency))
			}
			deal.Fees = append(deal.Fees, fee)

		default:
			return nil, fmt.Errorf("unknown command %q in line %q", identifier.Command, string(lineBytes))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read deal file: %w", err)
	}
	return deal, nil
}

// EncodeDeal writes the deal as JSONL with a stable key order, one command
// per line, suitable for versioning and hand editing.
func EncodeDeal(w io.Writer, deal *Deal) error {
	write := func(jw *jsonObjectWriter) error {
		b, err := jw.MarshalJSON()
		if err != nil {
			return err
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return err
		}
		return nil
	}

	var tw jsonObjectWriter
	tw.Append("command", CmdTimeline)
	tw.Append("start", deal.Timeline.Start)
	tw.Append("months", deal.Timeline.Months)
	tw.Optional("currency", deal.Currency)
	if err := write(&tw); err != nil {
		return err
	}

	for _, p := range deal.Partners {
		var pw jsonObjectWriter
		pw.Append("command", CmdPartner)
		pw.Append("name", p.Name)
		pw.Append("kind", p.Kind)
		pw.Append("share", p.Share)
		if err := write(&pw); err != nil {
			return err
		}
	}

	var mw jsonObjectWriter
	mw.Append("command", CmdPromote)
	mw.Append("method", deal.Method)
	if deal.Method == Waterfall && deal.Promote != nil {
		mw.Append("pref", deal.Promote.Pref)
		if len(deal.Promote.Tiers) > 0 {
			mw.Append("tiers", deal.Promote.Tiers)
		}
		mw.Append("final", deal.Promote.Final)
	}
	if err := write(&mw); err != nil {
		return err
	}

	for _, f := range deal.Fees {
		var fw jsonObjectWriter
		fw.Append("command", CmdFee)
		fw.Append("name", f.Name)
		fw.Optional("category", f.Category)
		fw.Append("payee", f.Payee)
		if f.Timing != FeeCustom {
			fw.Append("amount", f.Amount.Decimal())
		}
		fw.Append("timing", f.Timing)
		if f.Timing == FeeSplit {
			fw.Append("upfrontShare", f.UpfrontShare)
		}
		if f.Timing == FeeCustom {
			custom := make([]decimal.Decimal, len(f.Custom))
			for i, m := range f.Custom {
				custom[i] = m.Decimal()
			}
			fw.Append("custom", custom)
		}
		if err := write(&fw); err != nil {
			return err
		}
	}

	for _, fl := range deal.Flows {
		var lw jsonObjectWriter
		lw.Append("command", fl.Kind)
		lw.Append("date", fl.Date)
		lw.Append("amount", fl.Amount.Decimal())
		lw.Optional("memo", fl.Memo)
		if err := write(&lw); err != nil {
			return err
		}
	}
	return nil
}
