/*
Package diff compares object graphs. Both sides are mapped to their
generic view (see package graph) and walked in lockstep; every
difference found is recorded as a Delta, in the order it was found,
together with the Breadcrumb leading to it.

Members present on only one side are inserts or deletes. Members
present on both sides are compared: records recursively, collections
by matching their elements (by declared identity key, or else by
shape), and everything else by value. A value whose type changed is
not an update; it is the old value deleted and the new one inserted.
*/
package diff
