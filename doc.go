// Package waterfall models the equity side of a real-estate deal: who put
// money in, who gets money out, and how the split changes as the deal
// performs.
//
// The core functionalities include:
//   - Partnership Model: immutable Partner and PartnershipStructure values
//     describing GP/LP ownership and the distribution method (pari passu or
//     promote waterfall), validated once at construction time.
//   - Distribution Engine: a pure function that walks a monthly cash-flow
//     series and allocates every distributable dollar to a partner and a
//     waterfall tier (return of capital, preferred return, promote tiers).
//   - Time-Value Engine: XIRR over irregularly dated cash flows, equity
//     multiples, and the split solver used to locate IRR tier boundaries.
//   - Fee Overlay: fixed-schedule deal fees paid to specific partners out of
//     the same cash pool, reconciled to the cent against waterfall output.
//   - Deal Ledger: a human-readable JSONL deal file recording partners,
//     promote terms, contributions, draws and distributions.
//
// This package serves as the foundational logic for the `wfc` command-line
// tool, ensuring that every report is derived from a single deal file.
package waterfall
