// Package anim defines the character-art animation data model.
//
// An animation is an ordered list of frames, each frame an ordered list of
// rows, and each row a flat string in which every three runes form one cell:
//
//   - [Source]: the full frame sequence, fixed for a playback session
//   - [Frame]: one character grid
//   - [Row]: encoded cells, "A00B1cC ff" style
//   - [Cell]: a glyph plus a two-character hex color token
//
// # Example
//
//	src := anim.Source{{"A00"}, {"BFF"}}
//	if err := src.Validate(); err != nil {
//		return err
//	}
//	dims := src.Dims() // {Width: 1, Height: 1, Frames: 2}
//
// Values are never mutated after loading. Use [Source.Clone] before handing a
// source to another goroutine that might outlive the caller's copy.
package anim
