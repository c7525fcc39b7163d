package main

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/wm75/mimodd-lib/encoding/fasta"
	"github.com/wm75/mimodd-lib/seqread"
	"github.com/wm75/mimodd-lib/seqtransform"
)

const fa = ">chr1 first chromosome\nACGT\nacgt\n>bad;id\n"

func TestWriteDescription(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, writeDescription(strings.NewReader(fa), &out, describeOpts{sanitize: true, digest: "md5"}))
	expect.EQ(t, out.String(), "#ID\tLENGTH\tDIGEST\n"+
		"chr1\t8\tcc0af3a4fedb18378b4b57b98068e69f\n"+
		"bad%3Bid\t0\t*\n")

	out.Reset()
	assert.NoError(t, writeDescription(strings.NewReader(fa), &out, describeOpts{digest: "highway"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.EQ(t, len(lines), 3)
	expect.EQ(t, len(strings.Split(lines[1], "\t")[2]), 64)
	expect.EQ(t, lines[2], "bad;id\t0\t*")

	err := writeDescription(strings.NewReader(fa), &out, describeOpts{digest: "sha1"})
	expect.True(t, errors.Is(errors.Invalid, err), "err=%v", err)

	err = writeDescription(strings.NewReader(">x\nACXT\n"), &out, describeOpts{nucleotide: true})
	_, ok := err.(*fasta.SymbolError)
	expect.True(t, ok, "err=%v", err)
}

func TestRevcomp(t *testing.T) {
	var out bytes.Buffer
	in := "@r1 x\nAACGUUN\n+\nABCDEFG\n\n@r2\nAUG\n+\n!#%\n"
	assert.NoError(t, revcomp(strings.NewReader(in), &out, seqtransform.RNA))
	expect.EQ(t, out.String(), "@r1 x\nNAACGUU\n+\nGFEDCBA\n@r2\nCAU\n+\n%#!\n")

	err := revcomp(strings.NewReader("@r1\nACGT\n+\n!!\n"), &out, seqtransform.DNA)
	expect.NotNil(t, err)
}

const (
	r1FASTQ = "@p/1 1:N\nACGT\n+\n!!!!\n@q/1\nTT\n+\n##\n"
	r2FASTQ = "@p/2 2:N\nGGCC\n+\n####\n@q/2\nAA\n+\n!!\n"
)

func TestFastqToSAM(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, fastqToSAM(strings.NewReader(r1FASTQ), strings.NewReader(r2FASTQ), &out, "A"))

	r, err := sam.NewReader(bytes.NewReader(out.Bytes()))
	assert.NoError(t, err)
	rgs := r.Header().RGs()
	assert.EQ(t, len(rgs), 1)
	expect.EQ(t, rgs[0].Name(), "A")
	want := []struct {
		name  string
		flags sam.Flags
		seq   string
	}{
		{"p", 77, "ACGT"},
		{"p", 141, "GGCC"},
		{"q", 77, "TT"},
		{"q", 141, "AA"},
	}
	for _, w := range want {
		rec, err := r.Read()
		assert.NoError(t, err)
		read := seqread.NewRecordRead(&seqread.SAMRecord{R: rec}, seqtransform.DNA)
		expect.EQ(t, read.FullTitle(), w.name)
		expect.EQ(t, read.Flags(), w.flags)
		expect.EQ(t, string(read.Seq()), w.seq)
		rg, ok := read.ReadGroup()
		expect.True(t, ok)
		expect.EQ(t, rg, "A")
	}

	var groups bytes.Buffer
	r, err = sam.NewReader(bytes.NewReader(out.Bytes()))
	assert.NoError(t, err)
	assert.NoError(t, writeGroups(r, r.Header(), &groups, ""))
	expect.EQ(t, groups.String(), "#RG\tQNAME\tSEGMENTS\nA\tp\t2\nA\tq\t2\n")
}

func TestFastqToSAMDiscordantNames(t *testing.T) {
	var out bytes.Buffer
	err := fastqToSAM(strings.NewReader(r1FASTQ), strings.NewReader("@x/2\nGGCC\n+\n####\n"), &out, "")
	expect.True(t, errors.Is(errors.Invalid, err), "err=%v", err)
}

const samData = "@HD\tVN:1.4\tSO:queryname\n" +
	"@RG\tID:A\tSM:s1\n" +
	"@RG\tID:B\tSM:s2\n" +
	"r1\t77\t*\t0\t0\t*\t*\t0\t0\tACGT\t!!!!\tRG:Z:A\n" +
	"r1\t141\t*\t0\t0\t*\t*\t0\t0\tTTGG\t####\tRG:Z:A\n" +
	"r2\t4\t*\t0\t0\t*\t*\t0\t0\tGG\t!!\tRG:Z:B\n" +
	"r3\t4\t*\t0\t0\t*\t*\t0\t0\tGG\t!!\n"

func TestWriteGroupsMissingReadGroup(t *testing.T) {
	r, err := sam.NewReader(strings.NewReader(samData))
	assert.NoError(t, err)
	var out bytes.Buffer
	err = writeGroups(r, r.Header(), &out, "")
	expect.EQ(t, err, &seqread.ReadGroupError{Missing: true, Name: "r3"})

	// A default read group cannot be combined with declared ones.
	r, err = sam.NewReader(strings.NewReader(samData))
	assert.NoError(t, err)
	err = writeGroups(r, r.Header(), &out, "C")
	expect.True(t, errors.Is(errors.Invalid, err), "err=%v", err)
}

func TestFiles(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := func(name string) string { return filepath.Join(tempDir, name) }

	assert.NoError(t, ioutil.WriteFile(path("in.fa"), []byte(fa), 0644))
	assert.NoError(t, describe(ctx, path("in.fa"), path("out.tsv"), describeOpts{sanitize: true, replacement: "_"}))
	got, err := ioutil.ReadFile(path("out.tsv"))
	assert.NoError(t, err)
	assert.HasSubstr(t, string(got), "bad_id\t0\t*\n")

	assert.NoError(t, ioutil.WriteFile(path("in.sam"), []byte(samData[:strings.Index(samData, "r3\t")]), 0644))
	assert.NoError(t, groupsFile(ctx, path("in.sam"), path("groups.tsv"), ""))
	got, err = ioutil.ReadFile(path("groups.tsv"))
	assert.NoError(t, err)
	expect.EQ(t, string(got), "#RG\tQNAME\tSEGMENTS\nA\tr1\t2\nB\tr2\t1\n")

	assert.NoError(t, ioutil.WriteFile(path("r1.fq"), []byte(r1FASTQ), 0644))
	assert.NoError(t, ioutil.WriteFile(path("r2.fq"), []byte(r2FASTQ), 0644))
	assert.NoError(t, fastqToSAMFile(ctx, path("r1.fq"), path("r2.fq"), path("out.sam"), ""))
	assert.NoError(t, groupsFile(ctx, path("out.sam"), path("pairs.tsv"), "lane1"))
	got, err = ioutil.ReadFile(path("pairs.tsv"))
	assert.NoError(t, err)
	expect.EQ(t, string(got), "#RG\tQNAME\tSEGMENTS\nlane1\tp\t2\nlane1\tq\t2\n")

	assert.NoError(t, downsampleFiles(ctx, 1, path("r1.fq"), path("r2.fq"), path("r1.out.fq"), path("r2.out.fq")))
	got, err = ioutil.ReadFile(path("r2.out.fq"))
	assert.NoError(t, err)
	expect.EQ(t, string(got), "@p/2 2:N\nGGCC\n+\n####\n@q/2\nAA\n+\n!!\n")

	assert.NoError(t, revcompFile(ctx, path("r1.fq"), path("r1.rc.fq"), seqtransform.DNA))
	got, err = ioutil.ReadFile(path("r1.rc.fq"))
	assert.NoError(t, err)
	expect.EQ(t, string(got), "@p/1 1:N\nACGT\n+\n!!!!\n@q/1\nAA\n+\n##\n")

	expect.NotNil(t, describe(ctx, path("missing.fa"), path("x.tsv"), describeOpts{}))
}
