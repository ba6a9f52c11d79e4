// Package serializer provides the on-wire body format the core
// delegates serialization to: one whitespace-separated record per
// line, "px py pz vx vy vz mass material_int".
package serializer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/stellarforge/nbody-core/core/vector"
	"github.com/stellarforge/nbody-core/physics/body"
)

// WriteBodies writes one record per live body to w, newline-terminated.
func WriteBodies(w io.Writer, bodies []body.Body) error {
	bw := bufio.NewWriter(w)
	for i := range bodies {
		b := &bodies[i]
		_, err := fmt.Fprintf(bw, "%s %s %s %s %s %s %s %d\n",
			strconv.FormatFloat(b.Position.X, 'g', -1, 64),
			strconv.FormatFloat(b.Position.Y, 'g', -1, 64),
			strconv.FormatFloat(b.Position.Z, 'g', -1, 64),
			strconv.FormatFloat(b.Velocity.X, 'g', -1, 64),
			strconv.FormatFloat(b.Velocity.Y, 'g', -1, 64),
			strconv.FormatFloat(b.Velocity.Z, 'g', -1, 64),
			strconv.FormatFloat(b.Mass, 'g', -1, 64),
			int(b.Material),
		)
		if err != nil {
			return errors.Wrap(err, "serializer: write body record")
		}
	}
	return bw.Flush()
}

// ReadBodies parses one body per non-blank line from r.
func ReadBodies(r io.Reader) ([]body.Body, error) {
	var bodies []body.Body
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		b, err := parseBody(text)
		if err != nil {
			return nil, errors.Wrapf(err, "serializer: line %d", line)
		}
		bodies = append(bodies, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "serializer: scan bodies")
	}
	return bodies, nil
}

func parseBody(text string) (body.Body, error) {
	fields := strings.Fields(text)
	if len(fields) != 8 {
		return body.Body{}, errors.Errorf("expected 8 fields, got %d", len(fields))
	}

	values := make([]float64, 7)
	for i := 0; i < 7; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return body.Body{}, errors.Wrapf(err, "field %d", i)
		}
		values[i] = v
	}
	materialInt, err := strconv.Atoi(fields[7])
	if err != nil {
		return body.Body{}, errors.Wrap(err, "material field")
	}

	position := vector.New(values[0], values[1], values[2])
	velocity := vector.New(values[3], values[4], values[5])
	mass := values[6]
	material := body.Material(materialInt)

	b := body.New(position, velocity, mass, material)
	return b, nil
}
