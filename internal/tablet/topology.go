package tablet

import "github.com/ftdtab/ftdtab/internal/usbdev"

// InterfaceInfo is one interface's endpoint partition, split by direction.
// Built once at open time from descriptor data; immutable afterward.
type InterfaceInfo struct {
	Number uint8
	In     []uint8 // device-to-host endpoint addresses, declared order
	Out    []uint8 // host-to-device endpoint addresses, declared order
}

// ReadTopology reads the active configuration descriptor and maps every
// declared interface to its endpoint partition. Interfaces with no
// endpoints in a direction get an empty slice, not a missing entry.
func ReadTopology(h usbdev.Handle) (map[uint8]InterfaceInfo, error) {
	cfg, err := h.ActiveConfig()
	if err != nil {
		return nil, &DescriptorError{Err: err}
	}

	topo := make(map[uint8]InterfaceInfo, len(cfg.Interfaces))
	for _, ifc := range cfg.Interfaces {
		info := InterfaceInfo{Number: ifc.Number}
		for _, ep := range ifc.Endpoints {
			if ep.IsInput() {
				info.In = append(info.In, ep.Address)
			} else {
				info.Out = append(info.Out, ep.Address)
			}
		}
		topo[ifc.Number] = info
	}
	return topo, nil
}
