package fastq

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
)

const fq = `@NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG
ATACAGGCCTGANCCACTGTGCCCAGNCTANNTNATTANTGAANANAGAATNGTTNTAAATANANNNNNTNTNNNC
+
AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEE#EEEE#E#EEEEE#EEE#EEEAEE#A#####E#E###E
@NB500956:89:HW2FHBGX2:1:11101:13871:1070 1:N:0:ATCACG
CTCAACTCTGAGNCAGACAGAAATACNTTTNNTNTGAGTTACANCNTTCTTTTTCNACATATNCNNNNNTNGNNNT
+
AAAAAEEEEEEE#EEEEEEEEEEEEE#EEE##E#EEEEEEEEE#E#EEEEEEEEE#EAEEEE#A#####E#A###E
@NB500956:89:HW2FHBGX2:1:11101:9975:1070 1:N:0:ATCACG
GAGTAACCACGTNCCCATGGCCACAGNTGANNGNGTCACACCTNANCCGGGAGAGNCAATCCNGNNNNNGNANNNC
+
AAAAAEEEEEEE#EEEEEEEEEAEEE#EEA##E#EEEEEEEE<#E#<EEEEEEEE#<EEEA/#/#####A#E###A
@NB500956:89:HW2FHBGX2:1:11101:20247:1070 1:N:0:ATCACG
GATCGGAAGAGCNCACGTCTGAACTCNAGTNNCNTCCCGATCTNGNATGCCGTCTNCTGCTTNANNNNNANANNNG
+
AAAAAEEEEEEE#EEEEEEEEEEEEE#AEE##E#A////6AE<#E#EEEEEEEEA#A/EE/E#E#####/#E###E
@NB500956:89:HW2FHBGX2:1:11101:17754:1070 1:N:0:ATCACG
CAAGCAACTTACNTTACTTTAGGCTGNAAANNGNCTGCCTGAANTNCCTGCTCACNAATCCCNCNNNNNCNTNNNT
+
AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEEEEEEE#E#EEEEEEEEE#EAEAEA#/#####E#A###E
@NB500956:89:HW2FHBGX2:1:11101:26223:1070 1:N:0:ATCACG
TCAATTTCAGAACTTTTTATTGGTCTNTTCNNGNATTCATCTTNTNCCTGGTTTANTCTTGGNANNNNNTNTNNNT
+
AAAAAEEEEEEEEEEEEEEEEEEEEE#EEA##E#EEEEEEEEE#E#<EAEEEEEE#EEEEEE#E#####E#E###E
`

func stringScanner(s string) *Scanner {
	return NewScanner(bytes.NewReader([]byte(s)), All)
}

func scanAll(s string) ([]Read, error) {
	scan := stringScanner(s)
	var (
		reads []Read
		r     Read
	)
	for scan.Scan(&r) {
		reads = append(reads, r)
	}
	return reads, scan.Err()
}

func scanErr(s string) error {
	_, err := scanAll(s)
	return err
}

func TestFASTQ(t *testing.T) {
	s := stringScanner(fq)
	var r Read
	if !s.Scan(&r) {
		t.Fatal(s.Err())
	}
	expect := Read{
		ID:   "NB500956:89:HW2FHBGX2:1:11101:25648:1069 1:N:0:ATCACG",
		Seq:  "ATACAGGCCTGANCCACTGTGCCCAGNCTANNTNATTANTGAANANAGAATNGTTNTAAATANANNNNNTNTNNNC",
		Qual: "AAAAAEEEEEEE#EEAEEEEEEEEEE#EEE##E#EEEE#EEEE#E#EEEEE#EEE#EEEAEE#A#####E#E###E",
	}
	if got, want := r, expect; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	var n int
	for s.Scan(&r) {
		n++
		if len(r.Seq) != len(r.Qual) {
			t.Errorf("read %s: sequence length %d, quality length %d", r.ID, len(r.Seq), len(r.Qual))
		}
	}
	if got, want := n, 5; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := s.Err(); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestSimpleRecord(t *testing.T) {
	reads, err := scanAll("@r1\nACGT\n+\n!!!!\n")
	assert.NoError(t, err)
	expect.EQ(t, reads, []Read{{ID: "r1", Seq: "ACGT", Qual: "!!!!"}})
}

func TestMultilineRecords(t *testing.T) {
	const data = "\n\n@r1 first read \r\nACGT\nAC\r\n+r1 ignored\n!!!\n!!!\n\n\n" +
		"@r2\nGG\n+\n@@\n\n"
	reads, err := scanAll(data)
	assert.NoError(t, err)
	expect.EQ(t, reads, []Read{
		{ID: "r1 first read", Seq: "ACGTAC", Qual: "!!!!!!"},
		{ID: "r2", Seq: "GG", Qual: "@@"},
	})
}

func TestEmptyInput(t *testing.T) {
	for _, data := range []string{"", "\n", "\n \n\t\n"} {
		reads, err := scanAll(data)
		expect.NoError(t, err)
		expect.EQ(t, len(reads), 0)
	}
}

func TestFields(t *testing.T) {
	s := NewScanner(strings.NewReader("@r1\nACGT\n+\n!!!!\n"), ID|Qual)
	var r Read
	assert.True(t, s.Scan(&r))
	expect.EQ(t, r, Read{ID: "r1", Qual: "!!!!"})
}

func TestBadFASTQ(t *testing.T) {
	tests := []struct {
		data string
		want error
	}{
		{"12312#", ErrInvalid},
		{"ACGT\n", ErrInvalid},
		{"@1234\n123", ErrShort},
		{"@r1\nACGT\n", ErrShort},
		{"@r1\nACGT\n+\n", ErrShort},
		{"@r1\n+\n\n", ErrNoSequence},
		{"@r1\n\n+\n!!!!\n", ErrNoSequence},
		{"@r1\nACGT\n+\n!!!\n", ErrLengthMismatch},
		{"@r1\nACGT\n+\n!!!!!\n", ErrLengthMismatch},
		{"@r1\nACGT\n+\n!!!\n@r2\nAC\n+\n!!\n", ErrLengthMismatch},
		{"@r1\nACGT\n+\n!!!!\nr2\nAC\n+\n!!\n", ErrInvalid},
	}
	for _, test := range tests {
		err := scanErr(test.data)
		if got, want := errors.Cause(err), test.want; got != want {
			t.Errorf("%q: got %v, want %v", test.data, err, want)
		}
	}
}

func TestErrorIsSticky(t *testing.T) {
	s := stringScanner("@r1\nACGT\n+\n!!!!!\n@r2\nAC\n+\n!!\n")
	var r Read
	expect.False(t, s.Scan(&r))
	expect.False(t, s.Scan(&r))
	expect.EQ(t, errors.Cause(s.Err()), ErrLengthMismatch)
	assert.HasSubstr(t, s.Err().Error(), "record r1")
}

func TestWriter(t *testing.T) {
	var (
		s = stringScanner(fq)
		b = new(bytes.Buffer)
		w = NewWriter(b)
		r Read
	)
	for s.Scan(&r) {
		if err := w.Write(&r); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), fq; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPairScanner(t *testing.T) {
	const (
		r1 = "@a/1\nAC\n+\n!!\n@b/1\nGT\n+\n##\n"
		r2 = "@a/2\nTT\n+\n$$\n"
	)
	s := NewPairScanner(strings.NewReader(r1), strings.NewReader(r2), All)
	var a, b Read
	assert.True(t, s.Scan(&a, &b))
	expect.EQ(t, a.ID, "a/1")
	expect.EQ(t, b.ID, "a/2")
	expect.False(t, s.Scan(&a, &b))
	expect.EQ(t, s.Err(), ErrDiscordant)
}

func TestDownsample(t *testing.T) {
	var in1, in2 bytes.Buffer
	for i := 0; i < 100; i++ {
		in1.WriteString("@r" + string(rune('A'+i%26)) + "/1\nACGT\n+\nIIII\n")
		in2.WriteString("@r" + string(rune('A'+i%26)) + "/2\nTTGG\n+\nIIII\n")
	}
	all := func(rate float64) (string, string) {
		var out1, out2 bytes.Buffer
		assert.NoError(t, Downsample(rate, bytes.NewReader(in1.Bytes()), bytes.NewReader(in2.Bytes()), &out1, &out2))
		return out1.String(), out2.String()
	}
	o1, o2 := all(1.0)
	expect.EQ(t, o1, in1.String())
	expect.EQ(t, o2, in2.String())
	o1, o2 = all(0.0)
	expect.EQ(t, o1, "")
	expect.EQ(t, o2, "")

	o1, o2 = all(0.5)
	n1, err := scanAll(o1)
	assert.NoError(t, err)
	n2, err := scanAll(o2)
	assert.NoError(t, err)
	expect.EQ(t, len(n1), len(n2))
	expect.True(t, len(n1) > 0 && len(n1) < 100)

	var out1, out2 bytes.Buffer
	expect.NotNil(t, Downsample(1.5, &in1, &in2, &out1, &out2))
	err = Downsample(1.0, strings.NewReader("@a\nA\n+\n!\n"), strings.NewReader(""), &out1, &out2)
	expect.EQ(t, errors.Cause(err), ErrDiscordant)
}
