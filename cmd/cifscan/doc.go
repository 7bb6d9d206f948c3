/*
Cifscan reads every mmcif file under a directory.

Usage:

	cifscan [opts] directory

Files ending in .cif or .mmcif, optionally followed by .gz or .zst, are
read by a number of workers at once. Files which cannot be read are
logged and counted. At the end, the number of files, bytes, blocks and
categories is printed.

	-n num      number of workers, default one per cpu
	-c name     parse this category in every block (repeatable)
	-fast name  tokenize this category without looking at quotes
	            (repeatable, default atom_site)
	-metrics f  write prometheus metrics to f for the node exporter
	            textfile collector
	-cpuprofile f  write a cpu profile
*/
package main
