package grammar

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func ReadCompiledGrammar(r io.Reader) (*CompiledGrammar, error) {
	cg := &CompiledGrammar{}
	if err := json.NewDecoder(r).Decode(cg); err != nil {
		return nil, errors.Wrap(err, "failed to decode a compiled grammar")
	}
	if cg.Lexical == nil || cg.Syntactic == nil {
		return nil, errors.New("a compiled grammar needs both lexical and syntactic sections")
	}
	return cg, nil
}

func WriteCompiledGrammar(w io.Writer, cg *CompiledGrammar) error {
	b, err := json.Marshal(cg)
	if err != nil {
		return errors.Wrap(err, "failed to encode a compiled grammar")
	}
	_, err = w.Write(b)
	return err
}

func ReadReport(r io.Reader) (*Report, error) {
	report := &Report{}
	if err := json.NewDecoder(r).Decode(report); err != nil {
		return nil, errors.Wrap(err, "failed to decode a report")
	}
	return report, nil
}

func WriteReport(w io.Writer, report *Report) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode a report")
	}
	_, err = w.Write(b)
	return err
}
