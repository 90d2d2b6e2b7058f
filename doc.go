// Package pck mutates Godot PCK resource archives in place: it replaces,
// adds, and deletes entries inside an existing archive file without
// rewriting the whole container.
//
// A PCK file holds a fixed header, a contiguous entry table, and packed
// file data. Mutations append all new or relocated data after the current
// end of file, then rewrite the header and the entry table as the final,
// purely in-place steps. When a growing table would reach into existing
// file data, the affected entries are relocated to the end of file first.
//
// # Quick start
//
// Replace two resources and add a third:
//
//	f, err := os.OpenFile("game.pck", os.O_RDWR, 0)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	a, err := pck.Open(f)
//	if err != nil {
//	    return err
//	}
//	err = a.Replace([]pck.Replacement{
//	    {Path: "res://Core/Game.gde", Data: game},
//	    {Path: "res://Interface/ItemLibrary.gde", Data: library},
//	    {Path: "res://Mods/extra.gde", Data: extra},
//	})
//
// The caller must own the file exclusively for the duration of a mutation;
// the package performs no locking. Only PCK container version 1 is
// supported, without compression or encryption.
//
// The assets, tweak, and steam subpackages provide the glue around the
// core: configuration-driven batches, orchestration, and locating an
// installed game's archive.
package pck
