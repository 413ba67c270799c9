// Package textutil provides token fingerprints and cosine similarity for
// comparing song texts.
//
// Tokenization case-folds the text, splits on anything that is not a letter
// or digit, folds ё to е and drops tokens shorter than three runes, so
// Cyrillic and Latin lyrics compare the same way.
package textutil
