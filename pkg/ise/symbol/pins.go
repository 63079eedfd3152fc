package symbol

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/document"
	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/pinname"
)

// Pin is a handle to one I/O pin of a symbol. Handles stay valid across
// renames; they refer to the pin element, not to its name.
type Pin struct {
	el *etree.Element
}

// Name returns the pin's current name.
func (p *Pin) Name() string {
	v, _ := document.Attr(p.el, "name")
	return v
}

// Attr returns another attribute of the pin element, such as polarity.
func (p *Pin) Attr(key string) string {
	v, _ := document.Attr(p.el, key)
	return v
}

func (p *Pin) setName(name string) {
	p.el.CreateAttr("name", name)
}

// Label is a graph text that displays a pin's name.
type Label struct {
	el *etree.Element
}

// Ref returns the pin name the label points at.
func (l *Label) Ref() string {
	v, _ := document.Attr(l.el, "type")
	return strings.TrimPrefix(v, LabelRefPrefix)
}

func (l *Label) setRef(name string) {
	document.SetAttr(l.el, "type", LabelRefPrefix+name)
}

// Pins returns the symbol's pins in document order.
func (s *Symbol) Pins() []*Pin {
	nodes := s.doc.FindAll(document.All(document.Tag("pin"), document.Within("symbol")))
	pins := make([]*Pin, len(nodes))
	for i, node := range nodes {
		pins[i] = &Pin{el: node}
	}
	return pins
}

// Pin returns the pin with the given current name.
func (s *Symbol) Pin(name string) (*Pin, error) {
	node := s.doc.FindFirst(document.All(
		document.Tag("pin"),
		document.Within("symbol"),
		document.AttrEquals("name", name),
	))
	if node == nil {
		return nil, fmt.Errorf("%w: pin %s", ErrNotFound, name)
	}
	return &Pin{el: node}, nil
}

// PinName returns the current name of pin.
func (s *Symbol) PinName(pin *Pin) string {
	return pin.Name()
}

// Labels returns every pin label that references the pin's current name.
func (s *Symbol) Labels(pin *Pin) []*Label {
	return s.labelsFor(pin.Name())
}

func (s *Symbol) labelsFor(name string) []*Label {
	nodes := s.doc.FindAll(document.All(
		document.Tag("attrtext"),
		document.Within("graph"),
		document.Within("symbol"),
		document.AttrEquals("attrname", LabelAttrName),
		document.AttrEquals("type", LabelRefPrefix+name),
	))
	labels := make([]*Label, len(nodes))
	for i, node := range nodes {
		labels[i] = &Label{el: node}
	}
	return labels
}

// RenamePin gives pin a new name and re-points every label that referenced
// the old one. The new name is not checked against the pin name grammar.
func (s *Symbol) RenamePin(pin *Pin, name string) error {
	if err := checkPin(pin); err != nil {
		return err
	}

	// Labels must be collected under the old name before anything changes.
	labels := s.Labels(pin)
	for _, l := range labels {
		l.setRef(name)
	}
	pin.setName(name)
	return nil
}

// RenamePins renames every pin to rename(oldName). All new names and label
// sets are computed before the first edit, so exchanging two names keeps
// each label with its own pin.
func (s *Symbol) RenamePins(rename func(old string) string) error {
	type pending struct {
		pin    *Pin
		labels []*Label
		name   string
	}

	var plan []pending
	for _, pin := range s.Pins() {
		plan = append(plan, pending{
			pin:    pin,
			labels: s.Labels(pin),
			name:   rename(pin.Name()),
		})
	}

	for _, p := range plan {
		for _, l := range p.labels {
			l.setRef(p.name)
		}
		p.pin.setName(p.name)
	}
	return nil
}

// PinBounds parses the pin's current name.
func (s *Symbol) PinBounds(pin *Pin) (pinname.Name, error) {
	if err := checkPin(pin); err != nil {
		return pinname.Name{}, err
	}
	return pinname.Parse(pin.Name())
}

// SetPinBounds turns pin into the bus base(left:right), keeping its base
// name. A single-bit pin becomes a bus even when left equals right.
func (s *Symbol) SetPinBounds(pin *Pin, left, right int) error {
	if left < 0 || right < 0 {
		return fmt.Errorf("%w: negative bound (%d:%d)", ErrInvalidArgument, left, right)
	}
	name, err := s.PinBounds(pin)
	if err != nil {
		return err
	}
	return s.RenamePin(pin, pinname.Bus(name.Base, left, right).String())
}

// SetPinWidth resizes pin to width bits. A single-bit pin is first treated
// as the bus (0:0). An ascending bus keeps its left bound and moves the right
// one; any other bus, including one with equal bounds, keeps its right bound
// and moves the left one.
func (s *Symbol) SetPinWidth(pin *Pin, width int) error {
	if width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidArgument, width)
	}
	name, err := s.PinBounds(pin)
	if err != nil {
		return err
	}

	r := pinname.Range{}
	if name.Bus != nil {
		r = *name.Bus
	}
	if r.Ascending() {
		r.Right = r.Left + width - 1
	} else {
		r.Left = r.Right + width - 1
	}
	return s.SetPinBounds(pin, r.Left, r.Right)
}

func checkPin(pin *Pin) error {
	if pin == nil || pin.el == nil {
		return fmt.Errorf("%w: nil pin", ErrInvalidArgument)
	}
	if pin.el.Tag != "pin" {
		return fmt.Errorf("%w: element <%s> is not a pin", ErrInvalidArgument, pin.el.Tag)
	}
	return nil
}
