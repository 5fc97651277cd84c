// Package dogm162 controls an EA DOGM162 character LCD over a bit-banged
// 8-bit parallel bus.
//
// The DOGM162 is a 2 line by 16 column character display built around an
// ST7036 controller, which is HD44780 compatible with an extended command
// set for contrast, bias and booster control. The driver uses the 8-bit
// bus interface exclusively; 4-bit mode is not supported.
//
// # Hardware Connection
//
// The display is wired through twelve GPIO lines:
//
//	Display Pin → System Pin
//	DB0..DB7    → eight GPIOs (bidirectional data bus)
//	E           → GPIO (enable, latches the bus on a high pulse)
//	RW          → GPIO (low: write, high: read)
//	RS          → GPIO (low: instruction register, high: data memory)
//	VDD enable  → GPIO (switched display supply)
//
// The supply line lets the application power the display down completely
// between interactions, which matters on battery powered equipment. All
// lines are driven to ground on power-off: an undriven line leaks enough
// current to keep the display partially alive.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"log"
//
//		"periph.io/x/conn/v3/gpio"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/host/v3"
//
//		"github.com/mpio-be/TAMDL/dogm162"
//	)
//
//	func main() {
//		if _, err := host.Init(); err != nil {
//			log.Fatal(err)
//		}
//
//		var data [8]gpio.PinIO
//		for i, name := range []string{"GPIO5", "GPIO6", "GPIO13", "GPIO19",
//			"GPIO26", "GPIO16", "GPIO20", "GPIO21"} {
//			data[i] = gpioreg.ByName(name)
//		}
//
//		dev, err := dogm162.NewGPIO(data,
//			gpioreg.ByName("GPIO17"), // E
//			gpioreg.ByName("GPIO27"), // RW
//			gpioreg.ByName("GPIO22"), // RS
//			gpioreg.ByName("GPIO18"), // supply enable
//			nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer dev.PowerOff()
//
//		dev.WriteLine(1, "battery "+dogm162.ArrowUp)
//		dev.Printf(2, "%2d%%", 87)
//	}
//
// # Busy Handshake
//
// Every command and data byte is gated on the controller's busy flag. The
// driver switches the bus to input mode, reads the status register and polls
// until the flag clears, bounded to roughly one millisecond of ticks. A
// transfer whose poll times out is dropped silently: the display is a
// best-effort status surface, not a critical output path, so failures are
// logged at debug level instead of being surfaced to the caller. Writing to
// a powered-off display is likewise a deliberate no-op, so callers never
// need to check power state first.
//
// # Line Writes
//
// WriteLine truncates or right-pads text to exactly Width characters and
// re-issues an absolute cursor position before every write, so each call
// fully overwrites the previous line content and no cursor state needs to
// be tracked between calls. Puts and Putc are the raw primitives underneath
// for callers that manage the cursor themselves via GotoXY.
//
// # Custom Characters
//
// Eight glyphs are loaded into the controller's character generator at
// every power-on. Slots 5 to 7 hold up, down and right arrows, available
// as the ArrowUp, ArrowDown and ArrowRight string constants for embedding
// in line text. The glyph bitmaps live in the glyph subpackage.
//
// # Concurrency
//
// The driver holds no internal lock and assumes single-writer access to the
// shared bus. All delays are plain blocking sleeps; operations cannot be
// cancelled mid-transfer.
//
// # Testing
//
// The Bus interface is the seam for tests: substitute an implementation
// that records transfers and simulates the busy flag instead of touching
// hardware. See the package tests for a reference implementation.
//
// # Datasheet
//
// https://www.lcd-module.com/eng/pdf/doma/dog-me.pdf (display module)
// https://www.newhavendisplay.com/app_notes/ST7036.pdf (controller)
package dogm162
