package dogm162

import (
	"fmt"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type gpioFixture struct {
	bus   *gpioBus
	data  []*gpiotest.Pin
	e     *gpiotest.Pin
	rw    *gpiotest.Pin
	rs    *gpiotest.Pin
	power *gpiotest.Pin
}

func newGPIOFixture() *gpioFixture {
	f := &gpioFixture{
		e:     &gpiotest.Pin{N: "E"},
		rw:    &gpiotest.Pin{N: "RW"},
		rs:    &gpiotest.Pin{N: "RS"},
		power: &gpiotest.Pin{N: "PWR"},
	}
	var data [8]gpio.PinIO
	for i := range data {
		p := &gpiotest.Pin{N: fmt.Sprintf("DB%d", i), Num: i}
		f.data = append(f.data, p)
		data[i] = p
	}
	f.bus = &gpioBus{
		data:  data,
		e:     f.e,
		rw:    f.rw,
		rs:    f.rs,
		power: f.power,
		log:   quietLogger(),
	}
	return f
}

func (f *gpioFixture) busLevels() byte {
	var v byte
	for i, p := range f.data {
		if p.L == gpio.High {
			v |= 1 << i
		}
	}
	return v
}

func TestGPIOBusWrite(t *testing.T) {
	f := newGPIOFixture()
	f.bus.WriteBus(0xA5)
	if got := f.busLevels(); got != 0xA5 {
		t.Errorf("data pins = %#02x, want 0xa5", got)
	}
	f.bus.WriteBus(0x00)
	if got := f.busLevels(); got != 0 {
		t.Errorf("data pins = %#02x, want 0", got)
	}
}

func TestGPIOBusRead(t *testing.T) {
	f := newGPIOFixture()
	for i, p := range f.data {
		p.L = gpio.Level(0x5A&(1<<i) != 0)
	}
	if got := f.bus.ReadBus(); got != 0x5A {
		t.Errorf("ReadBus() = %#02x, want 0x5a", got)
	}
}

func TestGPIOBusOutputRestoresLastValue(t *testing.T) {
	f := newGPIOFixture()
	f.bus.WriteBus(0x3C)
	f.bus.SetBusInput()
	f.bus.SetBusOutput()
	if got := f.busLevels(); got != 0x3C {
		t.Errorf("data pins = %#02x after output switch, want 0x3c", got)
	}
}

func TestGPIOBusConfigure(t *testing.T) {
	f := newGPIOFixture()
	f.bus.WriteBus(0xFF)
	f.e.L = gpio.High
	f.power.L = gpio.High

	f.bus.Configure()

	if got := f.busLevels(); got != 0 {
		t.Errorf("data pins = %#02x after Configure, want 0", got)
	}
	if f.e.L != gpio.Low || f.rw.L != gpio.Low || f.rs.L != gpio.Low {
		t.Error("control lines not low after Configure")
	}
	if f.power.L != gpio.Low {
		t.Error("power line not low after Configure")
	}
}

func TestGPIOBusControlLines(t *testing.T) {
	f := newGPIOFixture()
	f.bus.SetEnable(gpio.High)
	f.bus.SetReadWrite(gpio.High)
	f.bus.SetRegisterSelect(gpio.High)
	f.bus.SetPower(gpio.High)
	if f.e.L != gpio.High || f.rw.L != gpio.High || f.rs.L != gpio.High || f.power.L != gpio.High {
		t.Error("control lines did not follow Set calls")
	}
}

func TestNewGPIOValidation(t *testing.T) {
	f := newGPIOFixture()
	var data [8]gpio.PinIO
	for i, p := range f.data {
		data[i] = p
	}

	missing := data
	missing[3] = nil
	if _, err := NewGPIO(missing, f.e, f.rw, f.rs, f.power, nil); err == nil {
		t.Error("NewGPIO() with nil data pin: expected error")
	}
	if _, err := NewGPIO(data, nil, f.rw, f.rs, f.power, nil); err == nil {
		t.Error("NewGPIO() with nil enable pin: expected error")
	}
}

func TestNewGPIOPowersOn(t *testing.T) {
	f := newGPIOFixture()
	var data [8]gpio.PinIO
	for i, p := range f.data {
		data[i] = p
	}

	dev, err := NewGPIO(data, f.e, f.rw, f.rs, f.power, &Opts{
		Contrast:     25,
		Tick:         time.Nanosecond,
		PowerUpDelay: time.Nanosecond,
		BusyPolls:    testBusyPolls,
		Logger:       quietLogger(),
	})
	if err != nil {
		t.Fatalf("NewGPIO() error = %v", err)
	}
	if f.power.L != gpio.High {
		t.Error("power line not raised by NewGPIO")
	}
	if f.e.L != gpio.Low {
		t.Error("enable line left high after init")
	}

	dev.PowerOff()
	if f.power.L != gpio.Low {
		t.Error("power line still high after PowerOff")
	}
	if got := f.busLevels(); got != 0 {
		t.Errorf("data pins = %#02x after PowerOff, want 0", got)
	}
}
