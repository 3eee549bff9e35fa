// Package transform decides which dataset transformation dialog is open and
// routes the dataset it produces back to the owner.
//
// A Page lists the actions of a Registry as buttons, gated by IsEnabled. A
// click selects a built-in action or a plugin on the Controller, which keeps at
// most one of them open. The Router reports which dialog that state makes
// visible and hands it DialogProps whose callbacks go through a MutationRelay:
// committing a dataset updates the owner and closes the dialog, cancelling only
// closes it.
package transform
