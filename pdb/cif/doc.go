// Package cif reads and writes files in cif/mmcif format.
//
// A File holds blocks (data_ lines), a Block holds categories and a
// Category holds named columns. A Column is a Data array plus a mask
// which says which values are really there.
//
// Files from the PDB are big and usually one wants a few categories
// from them, so nothing is read until it is needed.
// 1. DeserializeFile (or Read / ReadFile) only looks for data_ lines.
// 2. The first File.Get of a block finds where its categories start and
// stop, without looking inside them.
// 3. The first Block.Get of a category splits it into words and builds
// the columns. The result is kept, so the second Get is free.
// If you never touch a block or category, it is written back out exactly
// as it was read. A category that has been read is written from its
// columns in canonical layout, so the text only stays the same across a
// Get if it was canonical to start with. Values never change.
//
// Notes about the format...
// A question mark, ?, means a missing value.
// A dot, ., means not appropriate or deliberately left out.
// These turn into the mask, Missing and Inapplicable. When writing, they
// come back as "?" and ".".
// A line starting with ";" starts a text field, which goes on until a line
// with only a ";". Line breaks and leading spaces inside are kept, so
//
//	;a
//	  b
//	;
//
// is "a\n  b".
// A loop does not care about line breaks. Values are handed out to the
// columns in turn, so a row may be broken over lines or several rows may
// share a line.
// Floats are always written with three decimals. People diff these files.
//
// Splitting a line with quotes in it is slow. For a category like
// atom_site, where quoted values never have spaces in them, call
// SetFastCategories("atom_site") on the file or block.
//
// Nothing here is safe for concurrent use. File.Get and Block.Get
// replace the text of a block or category with the parsed version the
// first time it is read, so they write even though they look like reads.
// Two goroutines calling Get for the same key at the same time is a data
// race. Since parsing always gives the same answer, the practical damage
// is that the work is done twice, but do not rely on that. Use a mutex,
// or Get everything you need before handing the file to other goroutines,
// or give each goroutine its own File.
package cif
