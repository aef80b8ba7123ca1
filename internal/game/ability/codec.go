package ability

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// The flat-text store is a sequence of blocks. Each block opens with a type
// header line ("Spell" or "Skill"), carries "Key: value" lines, and closes
// with "End". The file ends with a lone "$".

// Decoder reads ability records from the flat-text store format.
// Malformed lines are logged and skipped; decoding never fails on content.
type Decoder struct {
	scanner *bufio.Scanner
	file    string
	line    int
	logger  *zap.Logger

	// Manuals resolves "Manual" function names at decode time. Nil leaves
	// manual payloads unbound.
	Manuals *ManualRegistry
}

// NewDecoder creates a Decoder reading from r. file is used only in
// warnings.
//
// Precondition: r and logger must be non-nil.
func NewDecoder(r io.Reader, file string, logger *zap.Logger) *Decoder {
	return &Decoder{
		scanner: bufio.NewScanner(r),
		file:    file,
		logger:  logger,
	}
}

// next returns the next non-blank line, trimmed of trailing whitespace.
func (d *Decoder) next() (string, bool) {
	for d.scanner.Scan() {
		d.line++
		line := strings.TrimRight(d.scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, true
	}
	return "", false
}

func (d *Decoder) warn(msg string, fields ...zap.Field) {
	fields = append(fields,
		zap.String("file", d.file),
		zap.Int("line", d.line),
	)
	d.logger.Warn(msg, fields...)
}

// DecodeAll reads blocks until the "$" terminator or EOF.
//
// Postcondition: Returns every decoded record in file order. Only a read
// failure on the underlying source yields an error.
func (d *Decoder) DecodeAll() ([]*Ability, error) {
	var out []*Ability
	for {
		line, ok := d.next()
		if !ok {
			break
		}
		if line == "$" {
			break
		}

		typ := TypeSpell
		switch idx := IndexOfName(line, TypeNames); idx {
		case -1:
			d.warn("invalid ability type header", zap.String("header", line))
		default:
			typ = Type(idx)
		}

		ab := New(0, "NotSetYet", typ)
		d.readBlock(ab)
		out = append(out, ab)
	}
	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", d.file, err)
	}
	return out, nil
}

// readBlock consumes lines into ab until "End" or EOF.
func (d *Decoder) readBlock(ab *Ability) {
	for {
		line, ok := d.next()
		if !ok {
			return
		}
		if strings.EqualFold(line, "End") {
			return
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			d.warn("malformed line, missing ':'", zap.String("text", line))
			continue
		}
		d.interpretLine(ab, strings.TrimSpace(key), strings.TrimSpace(value))
	}
}

// interpretLine applies one "Key: value" line to ab. Unknown or malformed
// fields are logged and skipped; prior field values are retained.
func (d *Decoder) interpretLine(ab *Ability, key, value string) {
	switch {
	case strings.EqualFold(key, "Number"):
		// Parse failures keep the atoi default of zero.
		n, err := strconv.Atoi(value)
		if err != nil {
			n = 0
		}
		ab.ID = n

	case strings.EqualFold(key, "Name"):
		ab.Name = value

	case strings.EqualFold(key, "MinPos"):
		idx := IndexOfName(value, PositionNames)
		if idx < 0 {
			d.warn("unknown position name", zap.String("value", value))
			idx = 0
		}
		ab.MinPosition = Position(idx)

	case strings.EqualFold(key, "Violent"):
		ab.Violent = strings.EqualFold(value, "Yes")

	case strings.EqualFold(key, "Cost"):
		var min, max, change int
		if n, _ := fmt.Sscanf(value, "%d %d %d", &min, &max, &change); n < 3 {
			d.warn("invalid value format for field Cost", zap.String("value", value))
			return
		}
		ab.Cost.Min, ab.Cost.Max, ab.Cost.Change = min, max, change

	case strings.EqualFold(key, "CostExpr"):
		ab.Cost.Kind = CostFormula
		ab.Cost.Formula = value

	case strings.EqualFold(key, "DamDice"):
		var size, count, bonus int
		if n, _ := fmt.Sscanf(value, "%d %d %d", &size, &count, &bonus); n < 3 {
			d.warn("invalid value format for field DamDice", zap.String("value", value))
			return
		}
		ab.Damage.DiceSize, ab.Damage.DiceCount, ab.Damage.Bonus = size, count, bonus
		if ab.Damage.Kind == DamageNone {
			ab.Damage.Kind = DamageDice
		}

	case strings.EqualFold(key, "DamExpr"):
		ab.Damage.Kind = DamageFormula
		ab.Damage.Formula = value

	case strings.EqualFold(key, "Affects"):
		var name string
		var mod int
		if n, _ := fmt.Sscanf(value, "%s %d", &name, &mod); n < 2 {
			d.warn("invalid value format for field Affects", zap.String("value", value))
			return
		}
		idx := IndexOfName(name, ApplyNames)
		if idx < 0 {
			d.warn("unknown apply name", zap.String("value", name))
			idx = 0
		}
		ab.Affects = append(ab.Affects, Affect{Location: ApplyLocation(idx), Modifier: mod})

	case strings.EqualFold(key, "AffDurtn"):
		if rest, ok := strings.CutPrefix(value, "F "); ok {
			ab.Duration.Kind = DurationFormula
			ab.Duration.Formula = strings.TrimSpace(rest)
			return
		}
		hours, err := strconv.Atoi(value)
		if err != nil {
			d.warn("invalid value format for field AffDurtn", zap.String("value", value))
			return
		}
		ab.Duration.Kind = DurationFixed
		ab.Duration.Hours = hours

	case strings.EqualFold(key, "Level"):
		var abbrev string
		var level int
		if n, _ := fmt.Sscanf(value, "%s %d", &abbrev, &level); n < 2 {
			d.warn("invalid value format for field Level", zap.String("value", value))
			return
		}
		idx := IndexOfName(abbrev, ClassAbbrevs)
		if idx < 0 {
			// Unknown class abbreviations are ignored.
			return
		}
		ab.MinLevels[idx] = level

	case strings.EqualFold(key, "Routines"):
		ab.Routines = d.parseBits(value, RoutineNames, ab.Routines)

	case strings.EqualFold(key, "Targets"):
		ab.Targets = d.parseBits(value, TargetNames, ab.Targets)

	case strings.EqualFold(key, "Flags"):
		if strings.EqualFold(value, "NOBITS") {
			ab.Flags.Clear()
			return
		}
		for _, tok := range strings.Fields(value) {
			if idx := IndexOfName(tok, FlagNames); idx >= 0 {
				ab.Flags.Set(idx)
			}
		}

	case strings.EqualFold(key, "Manual"):
		d.bindManual(ab, value)

	case strings.EqualFold(key, "Stun"):
		if ab.Skill == nil {
			d.warn("Stun field on non-skill ability", zap.String("value", value))
			return
		}
		var sc, sv, fc, fv int
		if n, _ := fmt.Sscanf(value, "%d %d %d %d", &sc, &sv, &fc, &fv); n < 4 {
			d.warn("invalid value format for field Stun", zap.String("value", value))
			return
		}
		ab.Skill.StunChar[StunSuccess], ab.Skill.StunVict[StunSuccess] = sc, sv
		ab.Skill.StunChar[StunFail], ab.Skill.StunVict[StunFail] = fc, fv

	case strings.EqualFold(key, "SubCmd"):
		if ab.Skill == nil {
			d.warn("SubCmd field on non-skill ability", zap.String("value", value))
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			d.warn("invalid value format for field SubCmd", zap.String("value", value))
			return
		}
		ab.Skill.Subcommand = n

	case strings.EqualFold(key, "Misc"):
		vals := strings.Fields(value)
		if len(vals) > NumMiscValues {
			vals = vals[:NumMiscValues]
		}
		for i, v := range vals {
			n, err := strconv.Atoi(v)
			if err != nil {
				d.warn("invalid value format for field Misc", zap.String("value", value))
				return
			}
			ab.MiscValues[i] = n
		}

	case strings.EqualFold(key, "Message"):
		d.parseMessage(ab, value)

	default:
		d.warn("unknown field in ability store",
			zap.String("field", key),
			zap.String("value", value),
		)
	}
}

// parseBits resolves space-separated tokens against table, setting one bit
// per match. "NOBITS" clears the set. Unmatched tokens are silently ignored.
func (d *Decoder) parseBits(value string, table []string, bits BitSet) BitSet {
	if strings.EqualFold(value, "NOBITS") {
		return 0
	}
	for _, tok := range strings.Fields(value) {
		if idx := IndexOfName(tok, table); idx >= 0 {
			bits = bits.Set(idx)
		}
	}
	return bits
}

// bindManual resolves a manual function name for ab's variant.
func (d *Decoder) bindManual(ab *Ability, name string) {
	switch {
	case ab.Spell != nil:
		ab.Spell.FuncName = name
		if d.Manuals == nil {
			return
		}
		fn, ok := d.Manuals.Spell(name)
		if !ok {
			d.warn("unknown manual spell function", zap.String("func", name))
			return
		}
		ab.Spell.Func = fn
	case ab.Skill != nil:
		ab.Skill.FuncName = name
		if d.Manuals == nil {
			return
		}
		fn, ok := d.Manuals.Skill(name)
		if !ok {
			d.warn("unknown manual skill function", zap.String("func", name))
			return
		}
		ab.Skill.Func = fn
	}
}

// parseMessage handles "Message: <kind> <recipient> <text...>".
func (d *Decoder) parseMessage(ab *Ability, value string) {
	fields := strings.SplitN(value, " ", 3)
	if len(fields) < 3 {
		d.warn("invalid value format for field Message", zap.String("value", value))
		return
	}
	kind := IndexOfName(fields[0], MessageKindNames)
	to := IndexOfName(fields[1], MessageToNames)
	if kind < 0 || to < 0 {
		d.warn("unknown message kind or recipient", zap.String("value", value))
		return
	}
	text := strings.TrimSpace(fields[2])

	if ab.Messages[kind] == nil {
		ab.Messages[kind] = &MessageSet{}
	}
	switch to {
	case MsgToChar:
		ab.Messages[kind].ToChar = text
	case MsgToVict:
		ab.Messages[kind].ToVict = text
	case MsgToRoom:
		ab.Messages[kind].ToRoom = text
	}
}

// writeField emits one "Key: value" line with the legacy key padding.
func writeField(w io.Writer, key, value string) error {
	_, err := fmt.Fprintf(w, "%-10s: %s\n", key, value)
	return err
}

// Encode writes one ability block in the fixed section order: identity,
// routines/targets/flags, cost, damage, manual binding, messages,
// affects with duration, per-class levels, "End".
//
// Precondition: ab must be non-nil.
func Encode(w io.Writer, ab *Ability) error {
	if _, err := fmt.Fprintf(w, "%s\n", ab.Type); err != nil {
		return err
	}

	_ = writeField(w, "Number", strconv.Itoa(ab.ID))
	_ = writeField(w, "Name", ab.Name)
	_ = writeField(w, "MinPos", ab.MinPosition.String())
	if ab.Violent {
		_ = writeField(w, "Violent", "Yes")
	} else {
		_ = writeField(w, "Violent", "No")
	}

	_ = writeField(w, "Routines", ab.Routines.Names(RoutineNames))
	_ = writeField(w, "Targets", ab.Targets.Names(TargetNames))
	_ = writeField(w, "Flags", ab.Flags.Names(FlagNames))

	_ = writeField(w, "Cost", fmt.Sprintf("%d %d %d", ab.Cost.Min, ab.Cost.Max, ab.Cost.Change))
	if ab.Cost.Kind == CostFormula {
		_ = writeField(w, "CostExpr", ab.Cost.Formula)
	}

	if ab.Damage.Kind == DamageDice {
		_ = writeField(w, "DamDice", fmt.Sprintf("%d %d %d", ab.Damage.DiceSize, ab.Damage.DiceCount, ab.Damage.Bonus))
	}
	if ab.Damage.Kind == DamageFormula {
		_ = writeField(w, "DamExpr", ab.Damage.Formula)
	}

	if name := ab.FuncName(); name != "" {
		_ = writeField(w, "Manual", name)
	}
	if ab.Skill != nil {
		sk := ab.Skill
		if sk.StunChar != [NumStunOutcomes]int{} || sk.StunVict != [NumStunOutcomes]int{} {
			_ = writeField(w, "Stun", fmt.Sprintf("%d %d %d %d",
				sk.StunChar[StunSuccess], sk.StunVict[StunSuccess],
				sk.StunChar[StunFail], sk.StunVict[StunFail]))
		}
		if sk.Subcommand != 0 {
			_ = writeField(w, "SubCmd", strconv.Itoa(sk.Subcommand))
		}
	}
	if ab.MiscValues != [NumMiscValues]int{} {
		vals := make([]string, NumMiscValues)
		for i, v := range ab.MiscValues {
			vals[i] = strconv.Itoa(v)
		}
		_ = writeField(w, "Misc", strings.Join(vals, " "))
	}

	for kind, msg := range ab.Messages {
		if msg == nil {
			continue
		}
		name := MessageKindNames[kind]
		if msg.ToChar != "" {
			_ = writeField(w, "Message", fmt.Sprintf("%s %s %s", name, MessageToNames[MsgToChar], msg.ToChar))
		}
		if msg.ToVict != "" {
			_ = writeField(w, "Message", fmt.Sprintf("%s %s %s", name, MessageToNames[MsgToVict], msg.ToVict))
		}
		if msg.ToRoom != "" {
			_ = writeField(w, "Message", fmt.Sprintf("%s %s %s", name, MessageToNames[MsgToRoom], msg.ToRoom))
		}
	}

	if len(ab.Affects) > 0 {
		for _, af := range ab.Affects {
			if af.Location > 0 {
				_ = writeField(w, "Affects", fmt.Sprintf("%s %d", af.Location, af.Modifier))
			}
		}
		if ab.Duration.Kind == DurationFormula {
			_ = writeField(w, "AffDurtn", "F "+ab.Duration.Formula)
		} else {
			_ = writeField(w, "AffDurtn", strconv.Itoa(ab.Duration.Hours))
		}
	}

	for i := 0; i < NumClasses; i++ {
		_ = writeField(w, "Level", fmt.Sprintf("%s %d", ClassAbbrevs[i], ab.MinLevels[i]))
	}

	_, err := fmt.Fprintf(w, "End\n\n")
	return err
}

// EncodeAll writes every record followed by the "$" file terminator.
//
// Postcondition: The output decodes back to records equal in every scalar
// field and live union arm.
func EncodeAll(w io.Writer, records []*Ability) error {
	for _, ab := range records {
		if err := Encode(w, ab); err != nil {
			return fmt.Errorf("encoding ability %d: %w", ab.ID, err)
		}
	}
	if _, err := fmt.Fprintln(w, "$"); err != nil {
		return err
	}
	return nil
}
