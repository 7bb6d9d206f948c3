/*
Cifcat reads an mmcif file and prints parts of it.

Usage:

	cifcat [opts] [file.cif[.gz|.zst]]

With no file, or "-", it reads from standard input. Compressed input is
recognised by its contents, not its name.

	-l          list blocks and their categories
	-c name     print a category
	-block name which block to take the category from. Only needed if
	            there is more than one.
	-format f   table (default), cif or logfmt
	-o file     write the whole file back out. A name ending in .gz or .zst
	            gets compressed.
	-fast name  tokenize this category without looking at quotes. Can be
	            given more than once. The default is atom_site, which is
	            almost all of a big file and never has spaces in its values.
	-log where  "stdout" or a file name. Default is standard error.
	-v          log what gets read and written

With none of -l, -c or -o, the file is written to standard output. This
is a round trip through the reader and writer.
*/
package main
