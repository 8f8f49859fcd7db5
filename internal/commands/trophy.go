package commands

import (
	"context"
	"encoding/binary"

	"saveshelf/internal/appdb"
	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
)

// TrophyUnavailableNotice is shown when the trophy database cannot be read.
const TrophyUnavailableNotice = "Error Reading Trophy Database!"

// trophyCommands lists the trophies of a set. The entry's Location is the
// trophy database and NumericTag the set's row id.
func (b *Builder) trophyCommands(ctx context.Context, entry *catalog.Entry) []*catalog.Command {
	logger := logging.WithContext(ctx, b.logger)

	db, err := appdb.Open(ctx, entry.Location)
	if err != nil {
		logging.WarnWithContext(logger, "trophy database unavailable", "trophy_db_unavailable",
			logging.String("path", entry.Location),
			logging.Error(err),
			logging.String(logging.FieldImpact, "trophy set listed without actions"),
		)
		return []*catalog.Command{warning(TrophyUnavailableNotice)}
	}
	trophies, err := db.Trophies(ctx, entry.NumericTag)
	_ = db.Close()
	if err != nil {
		logging.WarnWithContext(logger, "trophy query failed", "trophy_query_failed",
			logging.String("path", entry.Location),
			logging.Int64("set_id", entry.NumericTag),
			logging.Error(err),
			logging.String(logging.FieldImpact, "trophy list incomplete"),
		)
		if len(trophies) == 0 {
			return []*catalog.Command{warning(TrophyUnavailableNotice)}
		}
	}

	cmds := make([]*catalog.Command, 0, len(trophies)+1)
	cmds = append(cmds, catalog.NewSeparator("Trophies"))
	for _, t := range trophies {
		cmds = append(cmds, trophyRow(t))
	}
	return cmds
}

// trophyRow renders one trophy: grade marker, lock marker, then title. The
// payload is the trophy id as four little-endian bytes. An unlocked trophy
// offers lock and a locked one offers unlock.
func trophyRow(t appdb.Trophy) *catalog.Command {
	lock := byte(' ')
	if !t.Unlocked {
		lock = byte(catalog.GlyphLocked)
	}
	label := string([]byte{byte(catalog.TrophyGlyph(t.Grade)), lock, ' '}) + t.Title

	op := catalog.OpTrophyUnlock
	if t.Unlocked {
		op = catalog.OpTrophyLock
	}
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, uint32(t.ID))

	return &catalog.Command{
		Label:   label,
		Opcode:  op,
		Payload: payload,
		Detail:  t.Description + "\n",
	}
}
