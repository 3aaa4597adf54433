package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/golsm/utils"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close()
	studies, err := readCSV(bufio.NewReader(f))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	keys := make([]string, 0, len(studies))
	for k := range studies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cs := studies[k]
		fmt.Printf("Title = %s, Order = %d\n", cs.title, cs.order)
		for i := range cs.numPTS {
			fmt.Printf("%d, %v, %v, %v\n", cs.numPTS[i], cs.h[i], cs.rms[i], cs.max[i])
		}
		rmsOrder, maxOrder, err := cs.ObservedOrders()
		if err != nil {
			fmt.Printf("\t%v\n", err)
			continue
		}
		fmt.Printf("Observed order: rms %5.2f, max %5.2f\n", rmsOrder, maxOrder)
	}
}

type ConvergenceStudy struct {
	title       string
	order       int
	numPTS      []int
	h, rms, max []float64
}

func NewConvergenceStudy(title string, order int) *ConvergenceStudy {
	return &ConvergenceStudy{
		title: title,
		order: order,
	}
}

func (cs *ConvergenceStudy) Add(numPTS int, h, rms, max float64) {
	cs.numPTS = append(cs.numPTS, numPTS)
	cs.h = append(cs.h, h)
	cs.rms = append(cs.rms, rms)
	cs.max = append(cs.max, max)
}

func (cs *ConvergenceStudy) ObservedOrders() (rmsOrder, maxOrder float64, err error) {
	if rmsOrder, _, err = utils.ConvergenceOrder(cs.h, cs.rms); err != nil {
		return
	}
	maxOrder, _, err = utils.ConvergenceOrder(cs.h, cs.max)
	return
}

// readCSV groups the rows written by "golsm converge" by title and order.
func readCSV(r io.Reader) (studies map[string]*ConvergenceStudy, err error) {
	var (
		records [][]string
		ok      bool
		cs      *ConvergenceStudy
	)
	studies = make(map[string]*ConvergenceStudy)
	if records, err = csv.NewReader(r).ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) != 6 {
			return nil, fmt.Errorf("line %d: have %d columns, need 6", i+1, len(rec))
		}
		title, ordertxt, ntxt := rec[0], rec[1], rec[2]
		order, _ := strconv.Atoi(ordertxt)
		n, _ := strconv.Atoi(ntxt)
		combTitle := title + ordertxt
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, order)
			studies[combTitle] = cs
		}
		var vals [3]float64
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(rec[3+j], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		cs.Add(n, vals[0], vals[1], vals[2])
	}
	return
}
