package usbdev

import (
	"fmt"
	"time"
)

// ControlCall records one control transfer issued against a MockHandle.
type ControlCall struct {
	RequestType uint8
	Request     uint8
	Value       uint16
	Index       uint16
	Data        []byte
	Timeout     time.Duration
}

type mockRead struct {
	data []byte
	err  error
}

// MockHandle is a scripted in-memory Handle for tests. Interrupt reads are
// served from per-endpoint queues (an empty queue yields ErrTimeout, the
// idle-device steady state) and every lifecycle operation is appended to
// Calls so tests can assert ordering and counts.
type MockHandle struct {
	Desc    *ConfigDesc
	DescErr error

	// ActiveDrivers maps interface number to whether a kernel driver is
	// bound when the session starts. Detach and attach update it.
	ActiveDrivers map[uint8]bool

	ActiveErr  map[uint8]error
	DetachErr  map[uint8]error
	ClaimErr   map[uint8]error
	ReleaseErr map[uint8]error
	AttachErr  map[uint8]error

	ControlErr error
	Controls   []ControlCall

	// ReadHook, when set, overrides the queues entirely.
	ReadHook func(endpoint uint8, data []byte) (int, error)

	// Calls is the ordered log of lifecycle operations, e.g. "detach 1".
	Calls []string

	Closed bool

	reads map[uint8][]mockRead
}

func NewMockHandle() *MockHandle {
	return &MockHandle{
		ActiveDrivers: make(map[uint8]bool),
		reads:         make(map[uint8][]mockRead),
	}
}

// QueueRead schedules a successful interrupt read on an endpoint.
func (m *MockHandle) QueueRead(endpoint uint8, data []byte) {
	m.reads[endpoint] = append(m.reads[endpoint], mockRead{data: data})
}

// QueueReadErr schedules a failing interrupt read on an endpoint.
func (m *MockHandle) QueueReadErr(endpoint uint8, err error) {
	m.reads[endpoint] = append(m.reads[endpoint], mockRead{err: err})
}

func (m *MockHandle) record(op string, iface uint8) {
	m.Calls = append(m.Calls, fmt.Sprintf("%s %d", op, iface))
}

// CallCount returns how many times the given operation was logged.
func (m *MockHandle) CallCount(op string, iface uint8) int {
	want := fmt.Sprintf("%s %d", op, iface)
	n := 0
	for _, c := range m.Calls {
		if c == want {
			n++
		}
	}
	return n
}

func (m *MockHandle) ActiveConfig() (*ConfigDesc, error) {
	if m.DescErr != nil {
		return nil, m.DescErr
	}
	return m.Desc, nil
}

func (m *MockHandle) KernelDriverActive(iface uint8) (bool, error) {
	if err := m.ActiveErr[iface]; err != nil {
		return false, err
	}
	return m.ActiveDrivers[iface], nil
}

func (m *MockHandle) DetachKernelDriver(iface uint8) error {
	if err := m.DetachErr[iface]; err != nil {
		return err
	}
	m.record("detach", iface)
	m.ActiveDrivers[iface] = false
	return nil
}

func (m *MockHandle) AttachKernelDriver(iface uint8) error {
	if err := m.AttachErr[iface]; err != nil {
		return err
	}
	m.record("attach", iface)
	m.ActiveDrivers[iface] = true
	return nil
}

func (m *MockHandle) ClaimInterface(iface uint8) error {
	if err := m.ClaimErr[iface]; err != nil {
		return err
	}
	m.record("claim", iface)
	return nil
}

func (m *MockHandle) ReleaseInterface(iface uint8) error {
	if err := m.ReleaseErr[iface]; err != nil {
		return err
	}
	m.record("release", iface)
	return nil
}

func (m *MockHandle) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	m.Controls = append(m.Controls, ControlCall{
		RequestType: requestType,
		Request:     request,
		Value:       value,
		Index:       index,
		Data:        append([]byte(nil), data...),
		Timeout:     timeout,
	})
	if m.ControlErr != nil {
		return 0, m.ControlErr
	}
	return len(data), nil
}

func (m *MockHandle) InterruptTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error) {
	if m.ReadHook != nil {
		return m.ReadHook(endpoint, data)
	}
	queue := m.reads[endpoint]
	if len(queue) == 0 {
		return 0, ErrTimeout
	}
	next := queue[0]
	m.reads[endpoint] = queue[1:]
	if next.err != nil {
		return 0, next.err
	}
	return copy(data, next.data), nil
}

func (m *MockHandle) Close() error {
	m.Closed = true
	return nil
}
