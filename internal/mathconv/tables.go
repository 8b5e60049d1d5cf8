package mathconv

// symbols maps LaTeX commands without arguments to Typst math symbols.
var symbols = map[string]string{
	// Greek
	"alpha": "alpha", "beta": "beta", "gamma": "gamma", "delta": "delta",
	"epsilon": "epsilon.alt", "varepsilon": "epsilon", "zeta": "zeta",
	"eta": "eta", "theta": "theta", "vartheta": "theta.alt", "iota": "iota",
	"kappa": "kappa", "varkappa": "kappa.alt", "lambda": "lambda", "mu": "mu",
	"nu": "nu", "xi": "xi", "omicron": "omicron", "pi": "pi", "varpi": "pi.alt",
	"rho": "rho", "varrho": "rho.alt", "sigma": "sigma", "varsigma": "sigma.alt",
	"tau": "tau", "upsilon": "upsilon", "phi": "phi.alt", "varphi": "phi",
	"chi": "chi", "psi": "psi", "omega": "omega",
	"Gamma": "Gamma", "Delta": "Delta", "Theta": "Theta", "Lambda": "Lambda",
	"Xi": "Xi", "Pi": "Pi", "Sigma": "Sigma", "Upsilon": "Upsilon",
	"Phi": "Phi", "Psi": "Psi", "Omega": "Omega",

	// Big operators
	"sum": "sum", "prod": "product", "coprod": "product.co",
	"int": "integral", "iint": "integral.double", "iiint": "integral.triple",
	"oint": "integral.cont", "bigcup": "union.big", "bigcap": "sect.big",
	"bigoplus": "plus.circle.big", "bigotimes": "times.circle.big",
	"bigvee": "or.big", "bigwedge": "and.big",

	// Binary operators
	"cdot": "dot.op", "times": "times", "div": "div", "pm": "plus.minus",
	"mp": "minus.plus", "ast": "ast", "star": "star", "circ": "compose",
	"bullet": "bullet", "oplus": "plus.circle", "otimes": "times.circle",
	"odot": "dot.circle", "cup": "union", "cap": "sect", "setminus": "without",
	"wedge": "and", "land": "and", "vee": "or", "lor": "or", "dagger": "dagger",

	// Relations
	"leq": "lt.eq", "le": "lt.eq", "geq": "gt.eq", "ge": "gt.eq",
	"neq": "eq.not", "ne": "eq.not", "approx": "approx", "equiv": "equiv",
	"sim": "tilde.op", "simeq": "tilde.eq", "cong": "tilde.equiv",
	"propto": "prop", "ll": "lt.double", "gg": "gt.double", "in": "in",
	"notin": "in.not", "ni": "in.rev", "subset": "subset", "subseteq": "subset.eq",
	"supset": "supset", "supseteq": "supset.eq", "perp": "perp",
	"parallel": "parallel", "mid": "divides", "models": "models",
	"vdash": "tack.r", "prec": "prec", "succ": "succ", "preceq": "prec.eq",
	"succeq": "succ.eq", "lt": "lt", "gt": "gt",

	// Arrows
	"to": "arrow.r", "rightarrow": "arrow.r", "leftarrow": "arrow.l",
	"gets": "arrow.l", "Rightarrow": "arrow.r.double",
	"Leftarrow": "arrow.l.double", "leftrightarrow": "arrow.l.r",
	"Leftrightarrow": "arrow.l.r.double", "implies": "arrow.r.double.long",
	"iff": "arrow.l.r.double.long", "mapsto": "arrow.r.bar",
	"longrightarrow": "arrow.r.long", "longleftarrow": "arrow.l.long",
	"hookrightarrow": "arrow.r.hook", "uparrow": "arrow.t",
	"downarrow": "arrow.b", "Uparrow": "arrow.t.double",
	"Downarrow": "arrow.b.double", "nearrow": "arrow.tr", "searrow": "arrow.br",

	// Logic and sets
	"forall": "forall", "exists": "exists", "nexists": "exists.not",
	"neg": "not", "lnot": "not", "emptyset": "nothing", "varnothing": "nothing",
	"therefore": "therefore", "because": "because",

	// Miscellaneous
	"infty": "infinity", "partial": "partial", "nabla": "nabla",
	"ldots": "dots.h", "dots": "dots.h", "cdots": "dots.c", "vdots": "dots.v",
	"ddots": "dots.down", "prime": "prime", "angle": "angle", "hbar": "planck.reduce",
	"ell": "ell", "Re": "Re", "Im": "Im", "aleph": "aleph", "top": "top",
	"bot": "bot", "colon": "colon", "backslash": "backslash", "degree": "degree",
	"checkmark": "checkmark", "square": "square", "diamond": "diamond",
	"triangle": "triangle.stroked.t", "wp": "wp",

	// Delimiters
	"langle": "angle.l", "rangle": "angle.r", "lfloor": "floor.l",
	"rfloor": "floor.r", "lceil": "ceil.l", "rceil": "ceil.r",
	"vert": "bar.v", "lvert": "bar.v", "rvert": "bar.v", "Vert": "bar.v.double",
	"lVert": "bar.v.double", "rVert": "bar.v.double", "lbrace": `\{`,
	"rbrace": `\}`,

	// Named operators
	"sin": "sin", "cos": "cos", "tan": "tan", "cot": "cot", "sec": "sec",
	"csc": "csc", "sinh": "sinh", "cosh": "cosh", "tanh": "tanh",
	"coth": "coth", "arcsin": "arcsin", "arccos": "arccos", "arctan": "arctan",
	"log": "log", "ln": "ln", "lg": "lg", "exp": "exp", "lim": "lim",
	"liminf": "liminf", "limsup": "limsup", "max": "max", "min": "min",
	"sup": "sup", "inf": "inf", "det": "det", "dim": "dim", "ker": "ker",
	"arg": "arg", "deg": "deg", "gcd": "gcd", "lcm": "lcm", "hom": "hom",
	"Pr": "Pr", "bmod": `"mod"`, "mod": `"mod"`,

	// Escaped characters
	"{": `\{`, "}": `\}`, "%": "%", "$": `\$`, "#": `\#`, "&": `\&`,
	"_": `\_`, "|": "bar.v.double",
}

// spaces maps LaTeX spacing commands to Typst spacing.
var spaces = map[string]string{
	",":         "thin",
	":":         "med",
	">":         "med",
	";":         "thick",
	" ":         "space",
	"!":         "#h(-0.17em)",
	"quad":      "quad",
	"qquad":     "wide",
	"thinspace": "thin",
}

// fonts maps font switches to Typst wrappers; %s is the argument.
var fonts = map[string]string{
	"mathbf":       "upright(bold(%s))",
	"boldsymbol":   "bold(%s)",
	"bm":           "bold(%s)",
	"mathrm":       "upright(%s)",
	"mathit":       "italic(%s)",
	"mathcal":      "cal(%s)",
	"mathscr":      "scr(%s)",
	"mathbb":       "bb(%s)",
	"mathsf":       "sans(%s)",
	"mathtt":       "mono(%s)",
	"mathfrak":     "frak(%s)",
	"displaystyle": "display(%s)",
}

// accents maps accent commands to Typst accent functions.
var accents = map[string]string{
	"hat":            "hat",
	"widehat":        "hat",
	"tilde":          "tilde",
	"widetilde":      "tilde",
	"bar":            "macron",
	"overline":       "overline",
	"underline":      "underline",
	"vec":            "arrow",
	"overrightarrow": "arrow",
	"dot":            "dot",
	"ddot":           "dot.double",
	"acute":          "acute",
	"grave":          "grave",
	"breve":          "breve",
	"check":          "caron",
	"mathring":       "circle",
	"cancel":         "cancel",
}

// textCommands switch to text mode; %s is a quoted Typst string.
var textCommands = map[string]string{
	"text":       "%s",
	"textrm":     "%s",
	"textnormal": "%s",
	"mbox":       "%s",
	"hbox":       "%s",
	"textit":     "italic(%s)",
	"textbf":     "bold(%s)",
	"texttt":     "mono(%s)",
	"textsf":     "sans(%s)",
}

// ignored commands have no visible effect in Typst output. Typst scales
// paired delimiters on its own and places limits by operator class.
var ignored = map[string]bool{
	"limits": true, "nolimits": true, "textstyle": true,
	"scriptstyle": true, "scriptscriptstyle": true, "nonumber": true,
	"notag": true, "big": true, "Big": true, "bigg": true, "Bigg": true,
	"bigl": true, "bigr": true, "Bigl": true, "Bigr": true, "biggl": true,
	"biggr": true, "Biggl": true, "Biggr": true, "bigm": true, "Bigm": true,
	"strut": true,
}

// negations maps the command after \not to its negated symbol.
var negations = map[string]string{
	"in":       "in.not",
	"subset":   "subset.not",
	"supset":   "supset.not",
	"subseteq": "subset.eq.not",
	"supseteq": "supset.eq.not",
	"equiv":    "equiv.not",
	"sim":      "tilde.not",
	"approx":   "approx.not",
	"exists":   "exists.not",
	"mid":      "divides.not",
	"parallel": "parallel.not",
}

// matrixDelims maps matrix environments to the delim argument of mat.
// An empty value keeps Typst's default parentheses.
var matrixDelims = map[string]string{
	"matrix":      "#none",
	"smallmatrix": "#none",
	"pmatrix":     "",
	"bmatrix":     `"["`,
	"Bmatrix":     `"{"`,
	"vmatrix":     `"|"`,
	"Vmatrix":     `"||"`,
}

// alignedEnvs keep & alignment points and \\ line breaks inline.
var alignedEnvs = map[string]bool{
	"aligned": true, "align": true, "align*": true, "alignat": true,
	"alignat*": true, "gather": true, "gather*": true, "gathered": true,
	"split": true, "equation": true, "equation*": true, "multline": true,
	"multline*": true, "eqnarray": true, "eqnarray*": true,
}

// definitionCommands define macros inside a formula.
var definitionCommands = map[string]bool{
	"newcommand": true, "renewcommand": true, "providecommand": true,
	"def": true, "let": true, "DeclareMathOperator": true,
}
