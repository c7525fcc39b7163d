// bio-seqreads inspects and converts sequencing reads and reference
// sequences.
//
//   bio-seqreads describe [-sanitize] [-digest=md5|highway] [-nucleotide] in.fa out.tsv
//   bio-seqreads revcomp [-rna] in.fastq out.fastq
//   bio-seqreads fastq2sam [-rg=ID] r1.fastq r2.fastq out.sam
//   bio-seqreads groups [-default-rg=ID] in.bam|in.sam out.tsv
//   bio-seqreads downsample -rate=0.1 r1.fastq r2.fastq r1.out.fastq r2.out.fastq
package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/wm75/mimodd-lib/seqtransform"
	"v.io/x/lib/cmdline"
)

func newCmdDescribe() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "describe",
		Short: `Summarize the sequences of a FASTA file.
Writes one TSV line per sequence with its identifier, length and the digest of
its upper-cased sequence`,
		ArgsName: "in.fa out.tsv",
	}
	opts := describeOpts{}
	cmd.Flags.BoolVar(&opts.sanitize, "sanitize", false, "Replace characters that are unsafe in SAM/VCF headers in sequence identifiers")
	cmd.Flags.StringVar(&opts.replacement, "replacement", "", "Replacement for unsafe characters. If empty, they are percent-encoded")
	cmd.Flags.StringVar(&opts.digest, "digest", "md5", `Sequence digest, "md5" (as in SAM @SQ M5 fields) or "highway"`)
	cmd.Flags.BoolVar(&opts.nucleotide, "nucleotide", false, "Fail on sequence symbols that are not IUPAC nucleotide codes")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("describe takes in.fa out.tsv, but got %v", argv)
		}
		return describe(vcontext.Background(), argv[0], argv[1], opts)
	})
	return cmd
}

func newCmdRevcomp() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "revcomp",
		Short:    "Reverse-complement the reads of a FASTQ file",
		ArgsName: "in.fastq out.fastq",
	}
	rna := cmd.Flags.Bool("rna", false, "Complement U instead of T")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("revcomp takes in.fastq out.fastq, but got %v", argv)
		}
		m := seqtransform.DNA
		if *rna {
			m = seqtransform.RNA
		}
		return revcompFile(vcontext.Background(), argv[0], argv[1], m)
	})
	return cmd
}

func newCmdFastqToSAM() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "fastq2sam",
		Short:    "Convert paired FASTQ files to unaligned SAM",
		ArgsName: "r1.fastq r2.fastq out.sam",
	}
	rg := cmd.Flags.String("rg", "", "Read group to declare in the header and to assign to every read")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("fastq2sam takes r1.fastq r2.fastq out.sam, but got %v", argv)
		}
		return fastqToSAMFile(vcontext.Background(), argv[0], argv[1], argv[2], *rg)
	})
	return cmd
}

func newCmdGroups() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "groups",
		Short: `List the templates of a name-sorted SAM or BAM file.
Writes one TSV line per template with its read group, name and number of
primary segments. Fails on reads from undeclared read groups`,
		ArgsName: "in.bam|in.sam out.tsv",
	}
	defaultRG := cmd.Flags.String("default-rg", "", "Read group of reads without RG tag. Only valid for inputs without @RG header lines")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("groups takes in.bam|in.sam out.tsv, but got %v", argv)
		}
		return groupsFile(vcontext.Background(), argv[0], argv[1], *defaultRG)
	})
	return cmd
}

func newCmdDownsample() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "downsample",
		Short:    "Randomly sample read pairs from paired FASTQ files",
		ArgsName: "r1.fastq r2.fastq r1.out.fastq r2.out.fastq",
	}
	rate := cmd.Flags.Float64("rate", 1, "Fraction of read pairs to keep, in [0,1]")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 4 {
			return fmt.Errorf("downsample takes r1.fastq r2.fastq r1.out.fastq r2.out.fastq, but got %v", argv)
		}
		return downsampleFiles(vcontext.Background(), *rate, argv[0], argv[1], argv[2], argv[3])
	})
	return cmd
}

func main() {
	shutdown := grail.Init()
	defer shutdown()
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-seqreads",
			Short:    "Tools for FASTA, FASTQ and name-sorted SAM/BAM files",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdDescribe(),
				newCmdRevcomp(),
				newCmdFastqToSAM(),
				newCmdGroups(),
				newCmdDownsample(),
			},
		})
}
