package dogm162

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"github.com/mpio-be/TAMDL/dogm162/glyph"
)

// Display dimensions.
const (
	// Width is the number of characters per line.
	Width = 16
	// Lines is the number of display lines.
	Lines = 2
)

// Custom characters available after power-on, for embedding in line text.
const (
	ArrowUp    = "\x05"
	ArrowDown  = "\x06"
	ArrowRight = "\x07"
)

// Commands for the ST7036 LCD controller. The IS1 commands are only valid
// while instruction table 1 is selected via function set.
const (
	cmdClearDisplay  = 0x01 // clear display, address 0
	cmdReturnHome    = 0x02 // address 0, cursor home
	cmdEntryMode     = 0x04 // entry mode, no increment
	cmdEntryModeInc  = 0x06 // cursor auto-increment
	cmdDisplayOff    = 0x08
	cmdDisplayOn     = 0x0C // display on, cursor off, no blink
	cmdDisplayCursor = 0x0A // cursor on
	cmdDisplayBlink  = 0x09 // cursor blinking on

	cmdFunctionSet       = 0x20
	cmdFunctionSet8Bit   = 0x30 // DL=1: 8-bit interface
	cmdFunctionSet2Line  = 0x28 // N=1: 2-line display
	cmdFunctionSetTable0 = 0x20 // instruction table 0
	cmdFunctionSetTable1 = 0x21 // instruction table 1
	cmdFunctionSetTable2 = 0x22 // instruction table 2

	cmdSetDDRAMAddr = 0x80
	cmdSetCGRAMAddr = 0x40 // instruction table 0

	cmdBiasSet        = 0x14 // IS1: BS=0, 1/5 bias for a 2-line display
	cmdBoosterOn      = 0x54 // IS1: booster on, plus contrast C5:4
	cmdContrastSet    = 0x70 // IS1: contrast C3:0
	cmdFollowerOn     = 0x68 // IS1: voltage follower FON=1
	cmdFollowerRatio2 = 0x64 // IS1: follower amplification ratio RAB2
	cmdFollowerRatio1 = 0x62 // IS1: follower amplification ratio RAB1
	cmdFollowerRatio0 = 0x61 // IS1: follower amplification ratio RAB0

	// busy flag in bit 7 of the status register; bits 6:0 hold the
	// address counter
	busyFlag = 0x80

	// DDRAM address offset between display lines
	rowStride = 0x40

	// bound for text rendered by Printf
	printfBufLen = 40
)

// Character generator contents loaded at every power-on. Slots 0 to 4 are
// blank, slots 5 to 7 hold the arrow glyphs.
var charset = [8]glyph.Glyph{
	5: glyph.MustParse(
		"  #  ",
		" ### ",
		"# # #",
		"  #  ",
		"  #  ",
		"  #  ",
		"  #  ",
		"     "),
	6: glyph.MustParse(
		"  #  ",
		"  #  ",
		"  #  ",
		"  #  ",
		"# # #",
		" ### ",
		"  #  ",
		"     "),
	7: glyph.MustParse(
		"     ",
		"  #  ",
		"   # ",
		"#####",
		"   # ",
		"  #  ",
		"     ",
		"     "),
}

type powerState uint8

const (
	stateUnpowered powerState = iota
	statePowering
	stateReady
	stateOff
)

// Opts is the configuration for the display.
type Opts struct {
	// Contrast for the internal voltage generator, 0 to 63. It is split
	// across two controller registers during initialization and is fixed
	// for the lifetime of the device.
	Contrast int

	// Tick is the controller settle interval between bus operations.
	// Defaults to 30µs when zero.
	Tick time.Duration

	// PowerUpDelay is how long the controller needs after the supply line
	// is raised before it accepts commands. Defaults to 100ms when zero.
	PowerUpDelay time.Duration

	// BusyPolls bounds the busy-flag poll loop: the number of delay ticks
	// equivalent to the 1ms transfer timeout. Defaults to 33 when zero.
	BusyPolls int

	// Logger receives diagnostics for dropped transfers and contract
	// violations. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// DefaultOpts is the recommended configuration.
var DefaultOpts = Opts{
	Contrast:     25,
	Tick:         30 * time.Microsecond,
	PowerUpDelay: 100 * time.Millisecond,
	BusyPolls:    33,
}

func (o *Opts) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}

// Dev is the device handle for the display.
//
// A Dev holds no internal lock; callers must serialize access themselves.
type Dev struct {
	bus Bus
	log logrus.FieldLogger

	contrast     int
	tick         time.Duration
	powerUpDelay time.Duration
	busyPolls    int

	state powerState
}

// New creates a display device on the given bus and powers it on.
//
// Use nil opts for the default configuration.
func New(bus Bus, opts *Opts) (*Dev, error) {
	if bus == nil {
		return nil, errors.New("dogm162: bus must not be nil")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Contrast < 0 || opts.Contrast > 63 {
		return nil, fmt.Errorf("dogm162: contrast %d out of range 0..63", opts.Contrast)
	}
	if opts.Tick < 0 || opts.PowerUpDelay < 0 || opts.BusyPolls < 0 {
		return nil, errors.New("dogm162: timing options must not be negative")
	}
	d := &Dev{
		bus:          bus,
		log:          opts.logger(),
		contrast:     opts.Contrast,
		tick:         opts.Tick,
		powerUpDelay: opts.PowerUpDelay,
		busyPolls:    opts.BusyPolls,
	}
	if d.tick == 0 {
		d.tick = DefaultOpts.Tick
	}
	if d.powerUpDelay == 0 {
		d.powerUpDelay = DefaultOpts.PowerUpDelay
	}
	if d.busyPolls == 0 {
		d.busyPolls = DefaultOpts.BusyPolls
	}
	d.PowerOn()
	return d, nil
}

// NewGPIO creates a display device wired to discrete GPIO pins: DB0..DB7 on
// data, plus the E (enable), RW (read/write), RS (register select) and
// supply enable lines. The device is powered on before returning.
func NewGPIO(data [8]gpio.PinIO, e, rw, rs, power gpio.PinOut, opts *Opts) (*Dev, error) {
	for i, p := range data {
		if p == nil {
			return nil, fmt.Errorf("dogm162: data pin DB%d is nil", i)
		}
	}
	if e == nil || rw == nil || rs == nil || power == nil {
		return nil, errors.New("dogm162: E, RW, RS and power pins are all required")
	}
	var log logrus.FieldLogger = logrus.StandardLogger()
	if opts != nil && opts.Logger != nil {
		log = opts.Logger
	}
	return New(&gpioBus{data: data, e: e, rw: rw, rs: rs, power: power, log: log}, opts)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("dogm162.Dev{%s}", d.bus)
}

// PowerOn raises the display supply line and runs the full controller
// initialization: interface and bias setup, contrast, custom character
// upload and display enable. It is safe to call again after PowerOff.
func (d *Dev) PowerOn() {
	d.state = statePowering

	d.bus.Configure()
	d.bus.SetPower(gpio.High)

	// The controller ignores commands until its internal reset finishes.
	d.sleep(d.powerUpDelay)

	// 8-bit interface, 2-line mode, instruction table 1. Bias and the
	// contrast registers are only reachable from table 1.
	d.writeCommand(cmdFunctionSet8Bit | cmdFunctionSet2Line | cmdFunctionSetTable1)
	d.writeCommand(cmdBiasSet)
	d.writeCommand(cmdBoosterOn | byte(d.contrast>>4))
	d.writeCommand(cmdFollowerOn | cmdFollowerRatio2 | cmdFollowerRatio0)
	d.writeCommand(cmdContrastSet | byte(d.contrast&0x0F))

	// Back to instruction table 0 for CGRAM access.
	d.writeCommand(cmdFunctionSet8Bit | cmdFunctionSet2Line | cmdFunctionSetTable0)

	for slot, g := range charset {
		d.writeCommand(cmdSetCGRAMAddr | byte(slot<<3))
		for _, row := range g {
			d.writeData(row)
		}
	}

	d.writeCommand(cmdDisplayOn)
	d.writeCommand(cmdClearDisplay)
	d.writeCommand(cmdEntryModeInc)

	d.state = stateReady
}

// PowerOff drops the display supply line. The display state is cleared
// first so no further text operation reaches the bus, then the data bus and
// control lines are driven to ground: an undriven line leaks enough current
// to keep the display partially powered.
func (d *Dev) PowerOff() {
	d.state = stateOff

	d.bus.SetBusOutput()
	d.bus.SetReadWrite(gpio.Low)
	d.bus.SetRegisterSelect(gpio.Low)
	d.bus.WriteBus(0x00)
	d.bus.SetEnable(gpio.Low)
	d.bus.SetPower(gpio.Low)
}

// WriteLine writes text to the given display line, 1 or 2. The text is
// truncated or right-padded with spaces to exactly Width characters so the
// previous line content is always fully overwritten. Text is byte-oriented;
// the display character set is not UTF-8.
func (d *Dev) WriteLine(line int, text string) {
	if line < 1 || line > Lines {
		d.log.WithField("line", line).Warn("dogm162: line number out of range")
		return
	}
	buf := make([]byte, Width)
	n := copy(buf, text)
	for i := n; i < Width; i++ {
		buf[i] = ' '
	}
	d.GotoXY(0, line-1)
	d.Puts(string(buf))
}

// Printf renders a format string and writes the result to the given display
// line. The rendered text must fit the internal line buffer; oversized text
// is dropped without any transfer.
func (d *Dev) Printf(line int, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if len(text) > printfBufLen {
		d.log.WithField("len", len(text)).Warn("dogm162: formatted text exceeds line buffer")
		return
	}
	d.WriteLine(line, text)
}

// Puts writes a raw string at the current cursor position. No padding or
// bounds handling is done. A no-op while the display is off.
func (d *Dev) Puts(text string) {
	for i := 0; i < len(text); i++ {
		d.Putc(text[i])
	}
}

// Putc writes a single character at the current cursor position. A no-op
// while the display is off.
func (d *Dev) Putc(c byte) {
	if d.state != stateReady {
		return
	}
	d.writeData(c)
}

// GotoXY moves the cursor to column x of line y, where 0,0 is the upper
// left corner. Out-of-range coordinates are dropped without any transfer.
func (d *Dev) GotoXY(x, y int) {
	if d.state != stateReady {
		return
	}
	if x < 0 || x >= Width || y < 0 || y >= Lines {
		d.log.WithFields(logrus.Fields{"x": x, "y": y}).Warn("dogm162: cursor position out of range")
		return
	}
	d.writeCommand(cmdSetDDRAMAddr | byte(y*rowStride+x))
}

// busyRead samples the controller status register: busy flag in bit 7, the
// address counter in bits 6:0.
func (d *Dev) busyRead() byte {
	d.bus.SetBusInput()
	d.bus.SetReadWrite(gpio.High)
	d.bus.SetRegisterSelect(gpio.Low)
	d.bus.SetEnable(gpio.High)

	d.sleep(d.tick)
	status := d.bus.ReadBus()

	d.bus.SetEnable(gpio.Low)
	return status
}

// waitReady polls the busy flag until the controller is ready to accept the
// next transfer, or the poll bound is reached. Reports whether the
// controller is ready.
func (d *Dev) waitReady() bool {
	for i := 0; i < d.busyPolls; i++ {
		if d.busyRead()&busyFlag == 0 {
			return true
		}
		d.sleep(d.tick)
	}
	return false
}

func (d *Dev) writeCommand(cmd byte) {
	d.transfer(gpio.Low, cmd)
}

func (d *Dev) writeData(data byte) {
	d.transfer(gpio.High, data)
}

// transfer writes one byte to the instruction register (RS low) or data
// memory (RS high). On busy timeout the byte is dropped and the controller
// state is left unchanged; there is no retry.
func (d *Dev) transfer(rs gpio.Level, value byte) {
	if !d.waitReady() {
		d.log.WithField("value", fmt.Sprintf("%#02x", value)).Debug("dogm162: busy timeout, transfer dropped")
		return
	}

	d.bus.SetBusOutput()
	d.bus.SetReadWrite(gpio.Low)
	d.bus.SetRegisterSelect(rs)
	d.bus.WriteBus(value)

	d.bus.SetEnable(gpio.High)
	d.sleep(d.tick)
	d.bus.SetEnable(gpio.Low)
}

func (d *Dev) sleep(dur time.Duration) {
	time.Sleep(dur)
}
