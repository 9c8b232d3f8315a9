// Package patch applies declarative patch documents to JSON objects.
//
// A patch has three passes that always run in the same order: defaults fill
// members the target lacks, overrides replace members unconditionally, and
// unset removes dotted paths last. Objects merge member by member in both
// fill passes; arrays and scalars replace wholesale.
package patch
