package usbdev

import (
	"errors"
	"time"

	usb "github.com/kevmo314/go-usb"
)

// usbfsHandle adapts a go-usb device handle to the Handle interface.
type usbfsHandle struct {
	h *usb.DeviceHandle
}

// Open enumerates attached devices and opens the first one matching the
// given vendor/product pair, in the enumerator's native order.
func Open(vid, pid uint16) (Handle, error) {
	devices, err := usb.DeviceList()
	if err != nil {
		return nil, &EnumerateError{Err: err}
	}

	for _, dev := range devices {
		if dev.Descriptor.VendorID != vid || dev.Descriptor.ProductID != pid {
			continue
		}
		h, err := dev.Open()
		if err != nil {
			return nil, &OpenError{Err: err}
		}
		return &usbfsHandle{h: h}, nil
	}

	return nil, ErrDeviceNotFound
}

func (d *usbfsHandle) ActiveConfig() (*ConfigDesc, error) {
	// The tablet has a single configuration, so descriptor index 0 is the
	// active one.
	cfg, err := d.h.ConfigDescriptorByValue(0)
	if err != nil {
		return nil, err
	}

	out := &ConfigDesc{Value: cfg.ConfigurationValue}
	for _, ifc := range cfg.Interfaces {
		if len(ifc.AltSettings) == 0 {
			continue
		}
		// Alternate setting 0 is in effect after open; the tablet
		// declares no others.
		alt := ifc.AltSettings[0]
		desc := InterfaceDesc{Number: alt.InterfaceNumber}
		for _, ep := range alt.Endpoints {
			desc.Endpoints = append(desc.Endpoints, EndpointInfo{Address: ep.EndpointAddr})
		}
		out.Interfaces = append(out.Interfaces, desc)
	}
	return out, nil
}

func (d *usbfsHandle) KernelDriverActive(iface uint8) (bool, error) {
	return d.h.KernelDriverActive(iface)
}

func (d *usbfsHandle) DetachKernelDriver(iface uint8) error {
	return d.h.DetachKernelDriver(iface)
}

func (d *usbfsHandle) AttachKernelDriver(iface uint8) error {
	return d.h.AttachKernelDriver(iface)
}

func (d *usbfsHandle) ClaimInterface(iface uint8) error {
	return d.h.ClaimInterface(iface)
}

func (d *usbfsHandle) ReleaseInterface(iface uint8) error {
	return d.h.ReleaseInterface(iface)
}

func (d *usbfsHandle) ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	return d.h.ControlTransfer(requestType, request, value, index, data, timeout)
}

func (d *usbfsHandle) InterruptTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error) {
	// usbfs services interrupt endpoints through the bulk ioctl; calling
	// BulkTransfer directly gives a single bounded attempt without the
	// clear-halt retry InterruptTransfer adds.
	n, err := d.h.BulkTransfer(endpoint, data, timeout)
	if errors.Is(err, usb.ErrTimeout) {
		return 0, ErrTimeout
	}
	return n, err
}

func (d *usbfsHandle) Close() error {
	return d.h.Close()
}
