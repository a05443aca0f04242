// Package scenario implements RLVM's Scenario Parser component: turning a
// decompressed scenario byte stream (archive.Archive's output) into a
// typed element sequence with every jump target resolved to a stable
// handle.
//
// The one-pass scan dispatches on the lead byte of each element:
//
//	LEAD BYTE  ELEMENT
//	---------  -------------------------------------------
//	   0x00    end-of-stream sentinel
//	   ','     Comma                          (1 byte)
//	   '\n'    Metadata::Line + u16 LE         (3 bytes)
//	   '@'     Metadata::Kidoku / Entrypoint   (3 bytes)
//	   '!'     same, post-2007 latch variant   (3 bytes)
//	   '$'     Expression                      (expr.ScanLength)
//	   '#'     Command                         (header + variant)
//	  other    Textout                         (scanTextout)
//
// Command headers are 7 bytes after the '#' tag:
//
//	[ modtype:u8 | module:u8 | opcode:u16 LE | argc:u16 LE | overload:u8 ]
//
// and the (module, opcode) pair selects Goto/GotoIf/GotoOn/GotoCase/
// GosubWith/Select/Function per command.go's classifyCommand.
//
// Targets are byte offsets at first-pass time; a second pass resolves
// each one to a stable ElementHandle by looking it up in the offset
// table the first pass built, the same two-phase shape as an assembler's
// label-fixup pass.
package scenario
