// Package recordfile stores fixed-layout records in a flat file.
//
// Every record occupies exactly codec.SizeOf[T] bytes, so record seq is
// found at offset seq*size without an index:
//
//	f, err := recordfile.Open[Sample]("samples.dat", recordfile.DefaultOptions())
//	seq, err := f.Append(s)
//	s, err = f.Get(seq)
//
// Records may be overwritten in place with Put but never removed. A file
// whose length is not a whole number of records is rejected on open.
package recordfile
