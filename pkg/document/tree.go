package document

func checkIndex(k Kind, i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{Kind: k, Index: i, Len: n}
	}
	return nil
}

// SectionAt returns a pointer to the section at i.
func (d *Document) SectionAt(i int) (*Section, error) {
	if err := checkIndex(KindSection, i, len(d.Sections)); err != nil {
		return nil, err
	}
	return &d.Sections[i], nil
}

// EntryAt returns a pointer to the entry addressed by p.
func (d *Document) EntryAt(p Path) (*Entry, error) {
	s, err := d.SectionAt(p.Section)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(KindEntry, p.Entry, len(s.Entries)); err != nil {
		return nil, err
	}
	return &s.Entries[p.Entry], nil
}

// BulletAt returns a pointer to the bullet addressed by p.
func (d *Document) BulletAt(p Path) (*Bullet, error) {
	e, err := d.EntryAt(p)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(KindBullet, p.Bullet, len(e.Bullets)); err != nil {
		return nil, err
	}
	return &e.Bullets[p.Bullet], nil
}

// Len returns the length of the sequence that holds items of kind k under p.
// The parent part of p must be valid.
func (d *Document) Len(k Kind, p Path) (int, error) {
	switch k {
	case KindSection:
		return len(d.Sections), nil
	case KindEntry:
		s, err := d.SectionAt(p.Section)
		if err != nil {
			return 0, err
		}
		return len(s.Entries), nil
	case KindBullet:
		e, err := d.EntryAt(p)
		if err != nil {
			return 0, err
		}
		return len(e.Bullets), nil
	}
	return 0, &ValidationError{Field: "kind", Reason: "is unknown: " + string(k)}
}

// Index returns the index p holds for kind k.
func (p Path) Index(k Kind) int {
	switch k {
	case KindSection:
		return p.Section
	case KindEntry:
		return p.Entry
	default:
		return p.Bullet
	}
}

// WithIndex returns p with the index for kind k replaced.
func (p Path) WithIndex(k Kind, i int) Path {
	switch k {
	case KindSection:
		p.Section = i
	case KindEntry:
		p.Entry = i
	default:
		p.Bullet = i
	}
	return p
}

// Count reports the number of sections, entries and bullets in the document.
func (d *Document) Count() (sections, entries, bullets int) {
	for _, s := range d.Sections {
		sections++
		for _, e := range s.Entries {
			entries++
			bullets += len(e.Bullets)
		}
	}
	return sections, entries, bullets
}
