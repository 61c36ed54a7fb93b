// Package items is the demo item list every instance ships with. It is
// plain data presentation with no protocol logic.
package items
