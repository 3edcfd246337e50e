package benchmarks

import "github.com/sarchlab/sm213/emu"

// GetMicrobenchmarks returns the standard set of microbenchmarks.
// Each benchmark targets one instruction class and leaves its result in r0.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		functionCalls(),
		branchTaken(),
		mixedOperations(),
		arraySum(),
		loopSimulation(),
	}
}

// GetCoreBenchmarks returns a minimal set of 3 core benchmarks for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopSimulation(),
		arraySum(),
		branchTaken(),
	}
}

// 1. Arithmetic Sequential - ALU throughput with independent operations
func arithmeticSequential() Benchmark {
	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "20 independent inc operations - measures ALU cost",
		Source: `
        inc r0
        inc r1
        inc r2
        inc r3
        inc r4
        inc r0
        inc r1
        inc r2
        inc r3
        inc r4
        inc r0
        inc r1
        inc r2
        inc r3
        inc r4
        inc r0
        inc r1
        inc r2
        inc r3
        inc r4
        halt
`,
		ExpectedR0: 4,
	}
}

// 2. Dependency Chain - every add reads the previous result
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "10 dependent adds doubling r0",
		Source: `
        ld $1, r0
        add r0, r0
        add r0, r0
        add r0, r0
        add r0, r0
        add r0, r0
        add r0, r0
        add r0, r0
        add r0, r0
        add r0, r0
        add r0, r0
        halt
`,
		ExpectedR0: 1024,
	}
}

// 3. Memory Sequential - indexed stores then loads over one buffer
func memorySequential() Benchmark {
	return Benchmark{
		Name:        "memory_sequential",
		Description: "8 indexed stores followed by 8 indexed loads",
		Source: `
start:  ld $buf, r2
        ld $0, r3          # i
        ld $-8, r4         # -n
fill:   mov r3, r5
        add r4, r5
        beq r5, sum
        st r3, (r2, r3, 4)
        inc r3
        br fill
sum:    ld $0, r0
        ld $0, r3
acc:    mov r3, r5
        add r4, r5
        beq r5, done
        ld (r2, r3, 4), r1
        add r1, r0
        inc r3
        br acc
done:   halt

.pos 0x200
buf:    .long 0, 0, 0, 0, 0, 0, 0, 0
`,
		ExpectedR0: 28,
	}
}

// 4. Function Calls - gpc/j call and indirect return
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "5 calls through gpc and j 0(r6)",
		Source: `
start:  ld $0, r0
        gpc $6, r6
        j sub
        gpc $6, r6
        j sub
        gpc $6, r6
        j sub
        gpc $6, r6
        j sub
        gpc $6, r6
        j sub
        halt
sub:    inc r0
        j 0(r6)
`,
		ExpectedR0: 5,
	}
}

// 5. Branch Taken - a counted loop
func branchTaken() Benchmark {
	return Benchmark{
		Name:        "branch_taken",
		Description: "10 iterations of beq/br - measures branch cost",
		Source: `
start:  ld $10, r0
        ld $0, r1
loop:   beq r0, done
        dec r0
        inc r1
        br loop
done:   mov r1, r0
        halt
`,
		ExpectedR0: 10,
	}
}

// 6. Mixed Operations - shifts and the rest of the ALU group
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "shl, shr, and, not, inca, deca and dec",
		Source: `
        ld $0xf0, r1
        shl $4, r1
        ld $0xff0, r2
        and r2, r1
        shr $8, r1
        not r1
        inca r1
        deca r1
        dec r1
        mov r1, r0
        halt
`,
		ExpectedR0: -17,
	}
}

// 7. Array Sum - indexed loads over data laid out with .long
func arraySum() Benchmark {
	return Benchmark{
		Name:        "array_sum",
		Description: "sum of an array whose length is read from memory",
		Source: `
.pos 0x100
start:  ld $0, r0
        ld $array, r1
        ld $0, r3
        ld $n, r2
        ld (r2), r2
        not r2
        inc r2
loop:   mov r3, r4
        add r2, r4
        beq r4, done
        ld (r1, r3, 4), r5
        add r5, r0
        inc r3
        br loop
done:   ld $sum, r1
        st r0, (r1)
        halt

.pos 0x200
n:      .long 3
array:  .long 10, 20, 0x30
sum:    .long 0
`,
		ExpectedR0: 78,
	}
}

// 8. Loop Simulation - sum of a register set by Setup
func loopSimulation() Benchmark {
	return Benchmark{
		Name:        "loop_simulation",
		Description: "sum 1..r1 with r1 = 10 preset",
		Setup: func(regFile *emu.RegFile, memory *emu.Memory) {
			regFile.R[1] = 10
		},
		Source: `
        ld $0, r0
loop:   beq r1, done
        add r1, r0
        dec r1
        br loop
done:   halt
`,
		ExpectedR0: 55,
	}
}
