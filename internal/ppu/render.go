package ppu

// vramByte reads a byte from VRAM bank 0 or 1 directly (bypassing the MMU,
// since the PPU holds shared references to the same backing arrays).
func (p *PPU) vramByte(bank uint8, addr uint16) uint8 {
	off := addr - 0x8000
	if bank == 0 {
		return p.vram0[off]
	}
	return p.vram1[off]
}

// spriteHeight returns 8 or 16 per LCDC bit 2.
func (p *PPU) spriteHeight() uint8 {
	if p.lcdc&0x04 != 0 {
		return 16
	}
	return 8
}

// scanOAM walks the 40 OAM entries and selects up to 10 whose Y range
// covers the current scanline, sorted by X ascending (ties by OAM index,
// via a stable selection order), per spec.md §4.4.
func (p *PPU) scanOAM() {
	p.sprites.Reset()
	if p.lcdc&0x02 == 0 {
		return // objects disabled
	}
	h := p.spriteHeight()
	ly := int(p.ly)

	var candidates []Sprite
	for i := 0; i < 40 && len(candidates) < 10; i++ {
		off := i * 4
		y := p.oam[off]
		x := p.oam[off+1]
		tile := p.oam[off+2]
		attr := p.oam[off+3]

		top := int(y) - 16
		if ly < top || ly >= top+int(h) {
			continue
		}
		candidates = append(candidates, Sprite{Y: y, X: x, Tile: tile, Attr: attr, OAMIndex: uint8(i)})
	}

	// stable sort by X ascending; ties keep OAM-index order since
	// candidates was built in index order and this is an insertion sort.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].X < candidates[j-1].X; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	for _, s := range candidates {
		p.sprites.TryAdd(s)
	}
}

type bgAttr struct {
	palette  uint8
	bank     uint8
	xFlip    bool
	yFlip    bool
	priority bool
}

func decodeAttr(v uint8) bgAttr {
	return bgAttr{
		palette:  v & 0x07,
		bank:     (v >> 3) & 1,
		xFlip:    v&0x20 != 0,
		yFlip:    v&0x40 != 0,
		priority: v&0x80 != 0,
	}
}

// tileMapIndex reads the tile index byte (and, on CGB, the attribute
// byte from VRAM bank 1) for tile position (tx,ty) within the 32x32 map
// at mapBase.
func (p *PPU) tileMapIndex(mapBase uint16, tx, ty int) (uint8, bgAttr) {
	addr := mapBase + uint16(ty*32+tx)
	idx := p.vramByte(0, addr)
	var attr bgAttr
	if p.isCGB {
		attr = decodeAttr(p.vramByte(1, addr))
	}
	return idx, attr
}

// tileRow returns the 2 bitplane bytes for row pixY (0-7) of tile idx,
// using LCDC bit 4's addressing mode and the given VRAM bank.
func (p *PPU) tileRow(idx uint8, pixY int, bank uint8, unsignedOnly bool) (uint8, uint8) {
	var base uint16
	if unsignedOnly || p.lcdc&0x10 != 0 {
		base = 0x8000 + uint16(idx)*16
	} else {
		base = 0x9000 + uint16(int16(int8(idx)))*16
	}
	addr := base + uint16(pixY)*2
	lo := p.vramByte(bank, addr)
	hi := p.vramByte(bank, addr+1)
	return lo, hi
}

func colorIDFromRow(lo, hi uint8, bit int) uint8 {
	l := (lo >> bit) & 1
	h := (hi >> bit) & 1
	return h<<1 | l
}

// bgPixel computes the background color id + attributes visible at
// screen column x for the current scanline.
func (p *PPU) bgPixel(x int) (uint8, bgAttr) {
	tileX := ((int(p.scx) + x) / 8) % 32
	tileY := ((int(p.scy) + int(p.ly)) / 8) % 32
	pixX := (int(p.scx) + x) % 8
	pixY := (int(p.scy) + int(p.ly)) % 8

	mapBase := uint16(0x9800)
	if p.lcdc&0x08 != 0 {
		mapBase = 0x9C00
	}

	idx, attr := p.tileMapIndex(mapBase, tileX, tileY)
	bank := uint8(0)
	rowY := pixY
	if p.isCGB {
		bank = attr.bank
		if attr.yFlip {
			rowY = 7 - pixY
		}
	}
	lo, hi := p.tileRow(idx, rowY, bank, false)
	bit := 7 - pixX
	if p.isCGB && attr.xFlip {
		bit = pixX
	}
	return colorIDFromRow(lo, hi, bit), attr
}

// windowPixel computes the window color id + attributes at screen column
// x, using the internal window-line counter rather than LY directly (the
// window only advances its own line when it is actually drawn).
func (p *PPU) windowPixel(x int) (uint8, bgAttr) {
	wx := int(p.wx) - 7
	tileX := ((x - wx) / 8) % 32
	tileY := (int(p.wyInternal) / 8) % 32
	pixX := (x - wx) % 8
	pixY := int(p.wyInternal) % 8

	mapBase := uint16(0x9800)
	if p.lcdc&0x40 != 0 {
		mapBase = 0x9C00
	}

	idx, attr := p.tileMapIndex(mapBase, tileX, tileY)
	bank := uint8(0)
	rowY := pixY
	if p.isCGB {
		bank = attr.bank
		if attr.yFlip {
			rowY = 7 - pixY
		}
	}
	lo, hi := p.tileRow(idx, rowY, bank, false)
	bit := 7 - pixX
	if p.isCGB && attr.xFlip {
		bit = pixX
	}
	return colorIDFromRow(lo, hi, bit), attr
}

func (p *PPU) inWindow(x int) bool {
	if p.lcdc&0x20 == 0 {
		return false
	}
	if p.wy > p.ly {
		return false
	}
	return int(p.wx) <= x+7
}

// objectPixelAt finds the highest-priority queued sprite covering column
// x and returns its color id (0 means transparent/no hit) plus attrs.
func (p *PPU) objectPixelAt(x int) (uint8, uint8, bool) {
	h := int(p.spriteHeight())
	for i := 0; i < p.sprites.Len(); i++ {
		s := p.sprites.At(i)
		left := int(s.X) - 8
		if x < left || x >= left+8 {
			continue
		}
		pixX := x - left
		pixY := int(p.ly) - (int(s.Y) - 16)

		xFlip := s.Attr&0x20 != 0
		yFlip := s.Attr&0x40 != 0
		if xFlip {
			pixX = 7 - pixX
		}
		if yFlip {
			pixY = h - 1 - pixY
		}

		tile := s.Tile
		if h == 16 {
			tile &^= 1
			if pixY >= 8 {
				tile |= 1
				pixY -= 8
			}
		}

		bank := uint8(0)
		if p.isCGB {
			bank = (s.Attr >> 3) & 1
		}
		lo, hi := p.tileRow(tile, pixY, bank, true)
		id := colorIDFromRow(lo, hi, 7-pixX)
		if id == 0 {
			continue // transparent, keep scanning lower-priority objects
		}
		return id, s.Attr, true
	}
	return 0, 0, false
}

// renderScanline composes background, window, and object pixels for the
// current LY into the framebuffer, following the per-pixel merge rules of
// spec.md §4.4 steps 1-6. Pixels pass through PixelFIFOs even though the
// whole line is produced at once, to keep the same data-model shape the
// spec calls for.
func (p *PPU) renderScanline() {
	if p.ly >= ScreenHeight {
		return
	}

	var bgFIFO, objFIFO PixelFIFO
	bgFIFO.Clear()
	objFIFO.Clear()

	windowDrawnThisLine := false

	for x := 0; x < ScreenWidth; x++ {
		var bgID uint8
		var attr bgAttr
		useWindow := p.inWindow(x)
		if useWindow {
			bgID, attr = p.windowPixel(x)
			windowDrawnThisLine = true
		} else if p.lcdc&0x01 != 0 || p.isCGB {
			bgID, attr = p.bgPixel(x)
		}
		if p.lcdc&0x01 == 0 && !p.isCGB {
			bgID = 0
		}
		bgFIFO.Push(Pixel{ColorID: bgID, Palette: attr.palette, Priority: attr.priority})

		objID, objAttr, hit := p.objectPixelAt(x)
		if hit {
			objPal := (objAttr >> 4) & 1
			if p.isCGB {
				objPal = objAttr & 0x07
			}
			objFIFO.Push(Pixel{ColorID: objID, Palette: objPal, Priority: objAttr&0x80 != 0})
		} else {
			objFIFO.Push(Pixel{ColorID: 0})
		}

		bgPix := bgFIFO.Pop()
		objPix := objFIFO.Pop()

		p.Framebuffer[p.ly][x] = p.mergePixel(bgPix, objPix)
	}

	if windowDrawnThisLine {
		p.wyInternal++
	}
}

// mergePixel applies the DMG/CGB priority rules of spec.md §4.4 step 5 and
// maps the winning pixel through its palette (step 6).
func (p *PPU) mergePixel(bg, obj Pixel) uint32 {
	objectsEnabled := p.lcdc&0x02 != 0
	showObj := objectsEnabled && obj.ColorID != 0

	if p.isCGB {
		bgPriorityWins := p.lcdc&0x01 != 0 && (bg.Priority || obj.Priority) && bg.ColorID != 0
		if showObj && !bgPriorityWins {
			return p.objCRAM.Color(obj.Palette, obj.ColorID)
		}
		return p.bgCRAM.Color(bg.Palette, bg.ColorID)
	}

	if showObj && (!obj.Priority || bg.ColorID == 0) {
		palReg := p.obp0
		if obj.Palette == 1 {
			palReg = p.obp1
		}
		return applyDMGPalette(palReg, obj.ColorID)
	}
	return applyDMGPalette(p.bgp, bg.ColorID)
}
