package dogm162

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

// Bus is the hardware access layer between the driver and the display
// module: the 8-bit parallel data bus, the E/RW/RS control lines and the
// switched supply line. Bus operations have no failure modes at this level;
// implementations backed by fallible I/O log and continue.
//
// The driver assumes exclusive access to the bus. Implementations need not
// be safe for concurrent use.
type Bus interface {
	// Configure claims the control, power and data lines and drives them
	// to their resting levels: everything output, everything low.
	Configure()
	// SetBusOutput switches the data bus to output mode, re-driving the
	// last value written.
	SetBusOutput()
	// SetBusInput switches the data bus to input mode so the controller
	// can drive it.
	SetBusInput()
	// WriteBus places an 8-bit value on the data bus.
	WriteBus(value byte)
	// ReadBus samples the current 8-bit value on the data bus.
	ReadBus() byte
	// SetEnable drives the E line. A high pulse latches the bus value.
	SetEnable(level gpio.Level)
	// SetReadWrite drives the RW line: low for write, high for read.
	SetReadWrite(level gpio.Level)
	// SetRegisterSelect drives the RS line: low for the instruction
	// register, high for data memory.
	SetRegisterSelect(level gpio.Level)
	// SetPower drives the display supply enable line.
	SetPower(level gpio.Level)

	String() string
}

// gpioBus drives the display through discrete GPIO pins: DB0..DB7 on the
// data bus plus the E, RW, RS and power lines.
type gpioBus struct {
	data  [8]gpio.PinIO
	e     gpio.PinOut
	rw    gpio.PinOut
	rs    gpio.PinOut
	power gpio.PinOut

	// last value driven on the bus, re-asserted when switching the pins
	// back to output mode
	last byte

	log logrus.FieldLogger
}

func (b *gpioBus) Configure() {
	b.out(b.e, gpio.Low)
	b.out(b.rw, gpio.Low)
	b.out(b.rs, gpio.Low)
	b.last = 0
	b.WriteBus(0x00)
	b.out(b.power, gpio.Low)
}

func (b *gpioBus) SetBusOutput() {
	// Driving the pins switches them back to output mode.
	b.WriteBus(b.last)
}

func (b *gpioBus) SetBusInput() {
	for _, p := range b.data {
		if err := p.In(gpio.Float, gpio.NoEdge); err != nil {
			b.log.WithError(err).WithField("pin", p.Name()).Warn("dogm162: failed to switch data pin to input")
		}
	}
}

func (b *gpioBus) WriteBus(value byte) {
	for i, p := range b.data {
		b.out(p, gpio.Level(value&(1<<i) != 0))
	}
	b.last = value
}

func (b *gpioBus) ReadBus() byte {
	var value byte
	for i, p := range b.data {
		if p.Read() == gpio.High {
			value |= 1 << i
		}
	}
	return value
}

func (b *gpioBus) SetEnable(level gpio.Level)         { b.out(b.e, level) }
func (b *gpioBus) SetReadWrite(level gpio.Level)      { b.out(b.rw, level) }
func (b *gpioBus) SetRegisterSelect(level gpio.Level) { b.out(b.rs, level) }
func (b *gpioBus) SetPower(level gpio.Level)          { b.out(b.power, level) }

func (b *gpioBus) String() string {
	return fmt.Sprintf("gpio{E:%s RW:%s RS:%s PWR:%s}", b.e, b.rw, b.rs, b.power)
}

func (b *gpioBus) out(p gpio.PinOut, level gpio.Level) {
	if err := p.Out(level); err != nil {
		b.log.WithError(err).WithField("pin", p.Name()).Warn("dogm162: pin write failed")
	}
}
