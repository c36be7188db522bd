package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/RodCut/internal/milp"
)

// GeneticConfig holds parameters for the genetic algorithm optimizer.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// scaledGeneticConfig grows the search for larger piece counts.
func scaledGeneticConfig(pieces int) GeneticConfig {
	config := DefaultGeneticConfig()
	if pieces > 20 {
		config.Generations = 150
	}
	if pieces > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}
	return config
}

// chromosome is an order in which the free pieces are packed first fit.
// Each gene indexes the pieces slice of the optimizer.
type chromosome struct {
	genes   []int
	fitness float64
}

type geneticOptimizer struct {
	f      *Formulation
	fix    *Fixations
	config GeneticConfig
	pieces []int // item index per free piece, longest first
	rng    *rand.Rand
}

func newGeneticOptimizer(f *Formulation, fix *Fixations, config GeneticConfig, seed int64) (*geneticOptimizer, error) {
	base, err := newPacking(f, fix)
	if err != nil {
		return nil, err
	}
	var pieces []int
	for i, it := range f.Items {
		for n := base.placed[i]; n < it.Quantity; n++ {
			pieces = append(pieces, i)
		}
	}
	return &geneticOptimizer{
		f:      f,
		fix:    fix,
		config: config,
		pieces: pieces,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// optimize runs the genetic algorithm and returns the best packing found.
func (g *geneticOptimizer) optimize() (*packing, error) {
	if len(g.pieces) == 0 {
		return newPacking(g.f, g.fix)
	}

	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		g.sortPopulation(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	g.sortPopulation(population)
	return g.decode(population[0])
}

func (g *geneticOptimizer) sortPopulation(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
}

// initPopulation creates random orders plus one longest-first order, which
// decodes to first-fit decreasing.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.pieces)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{genes: g.rng.Perm(n)}
	}
	if len(population) > 0 {
		genes := make([]int, n)
		for i := range genes {
			genes[i] = i
		}
		population[0] = chromosome{genes: genes}
	}
	return population
}

// evaluate scores a chromosome: fewer rods always wins, and among equal rod
// counts the packing with fuller rods scores higher.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	p, err := g.decode(c)
	if err != nil {
		return math.Inf(-1)
	}
	return -float64(p.rods) + 0.999*p.fillScore()
}

// decode packs the pieces first fit in chromosome order on top of the
// fixed cuts.
func (g *geneticOptimizer) decode(c chromosome) (*packing, error) {
	p, err := newPacking(g.f, g.fix)
	if err != nil {
		return nil, err
	}
	for _, gene := range c.genes {
		if err := p.placeOne(g.pieces[gene], p.firstFit); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) for permutation chromosomes.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}
	inSegment := make([]bool, n)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, pg := range parent2.genes {
		if !inSegment[pg] {
			child.genes[childIdx] = pg
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}

// Genetic searches piece orders with a genetic algorithm, decoding each
// order by first fit on top of the fixed cuts. The same seed always yields
// the same assignment.
func Genetic(f *Formulation, fix *Fixations, seed int64) (*milp.Result, error) {
	pieces := 0
	for _, it := range f.Items {
		pieces += it.Quantity
	}
	return GeneticWithConfig(f, fix, scaledGeneticConfig(pieces), seed)
}

// GeneticWithConfig is Genetic with explicit search parameters.
func GeneticWithConfig(f *Formulation, fix *Fixations, config GeneticConfig, seed int64) (*milp.Result, error) {
	if config.PopulationSize < 1 || config.TournamentSize < 1 {
		return nil, fmt.Errorf("genetic: population and tournament size must be positive")
	}
	ga, err := newGeneticOptimizer(f, fix, config, seed)
	if err != nil {
		return nil, err
	}
	p, err := ga.optimize()
	if err != nil {
		return nil, err
	}
	return p.result(milp.StatusFeasible), nil
}
