package testutil

import "github.com/roach88/doctrans/internal/ir"

// ShortDescription is the summary line shared by every fixture.
const ShortDescription = "Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library"

// ReturnsType is the return type shared by every fixture.
const ReturnsType = "Union[Tuple[tf.data.Dataset, tf.data.Dataset], Tuple[np.ndarray, np.ndarray]]"

// FieldTagDocstring is ConfigIR(true) emitted with types and default
// phrases.
const FieldTagDocstring = `
Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library

:param dataset_name: name of dataset. Defaults to mnist
:type dataset_name: ` + "```str```" + `

:param tfds_dir: directory to look for models in. Defaults to ~/tensorflow_datasets
:type tfds_dir: ` + "```Optional[str]```" + `

:param K: backend engine, e.g., ` + "`np` or `tf`" + `. Defaults to np
:type K: ` + "```Literal[\"np\", \"tf\"]```" + `

:param as_numpy: Convert to numpy ndarrays.
:type as_numpy: ` + "```Optional[bool]```" + `

:param data_loader_kwargs: pass this as arguments to data_loader function.
:type data_loader_kwargs: ` + "```dict```" + `

:return: Train and tests dataset splits. Defaults to ` + "```(np.empty(0), np.empty(0))```" + `
:rtype: ` + "```" + ReturnsType + "```" + `
`

// NumpyDocstring carries the same content in numpydoc sections.
const NumpyDocstring = `
Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library

Parameters
----------
dataset_name : str
    name of dataset. Defaults to mnist
tfds_dir : Optional[str]
    directory to look for models in. Defaults to ~/tensorflow_datasets
K : Literal["np", "tf"]
    backend engine, e.g., ` + "`np` or `tf`" + `. Defaults to np
as_numpy : Optional[bool]
    Convert to numpy ndarrays.
data_loader_kwargs : dict
    pass this as arguments to data_loader function.

Returns
-------
` + ReturnsType + `
    Train and tests dataset splits. Defaults to ` + "```(np.empty(0), np.empty(0))```" + `
`

// GoogleDocstring carries the same content in google sections.
const GoogleDocstring = `
Acquire from the official tensorflow_datasets model zoo, or the ophthalmology focussed ml-prepare library

Args:
    dataset_name (str): name of dataset. Defaults to mnist
    tfds_dir (Optional[str]): directory to look for models in. Defaults to ~/tensorflow_datasets
    K (Literal["np", "tf"]): backend engine, e.g., ` + "`np` or `tf`" + `. Defaults to np
    as_numpy (Optional[bool]): Convert to numpy ndarrays.
    data_loader_kwargs (dict): pass this as arguments to data_loader function.

Returns:
    ` + ReturnsType + `: Train and tests dataset splits. Defaults to ` + "```(np.empty(0), np.empty(0))```" + `
`

// NumpyReturnsOnly documents nothing but the return value.
const NumpyReturnsOnly = `
Returns
-------
` + ReturnsType + `
    Train and tests dataset splits.
`

// ConfigIR is the IR every fixture parses to. withPhrases keeps the
// "Defaults to" announcements in the docs.
func ConfigIR(withPhrases bool) *ir.IR {
	doc := func(plain, phrase string) string {
		if withPhrases && phrase != "" {
			return plain + " " + phrase
		}
		return plain
	}
	return &ir.IR{
		Kind:             ir.KindFunction,
		ShortDescription: ShortDescription,
		Params: ir.Params{
			ir.NewParam("dataset_name", "str", doc("name of dataset.", "Defaults to mnist"), ir.Ptr("mnist")),
			ir.NewParam("tfds_dir", "Optional[str]", doc("directory to look for models in.", "Defaults to ~/tensorflow_datasets"), ir.Ptr("~/tensorflow_datasets")),
			ir.NewParam("K", `Literal["np", "tf"]`, doc("backend engine, e.g., `np` or `tf`.", "Defaults to np"), ir.Ptr("np")),
			ir.NewParam("as_numpy", "Optional[bool]", "Convert to numpy ndarrays.", nil),
			ir.NewParam("data_loader_kwargs", "dict", "pass this as arguments to data_loader function.", nil),
		},
		Returns: ptrParam(ir.NewParam(ir.ReturnName, ReturnsType,
			doc("Train and tests dataset splits.", "Defaults to "+ir.CodeDefault("(np.empty(0), np.empty(0))")),
			ir.Ptr(ir.CodeDefault("(np.empty(0), np.empty(0))")))),
	}
}

// Named returns a copy of r with Name and Kind set.
func Named(r *ir.IR, name string, kind ir.Kind) *ir.IR {
	out := r.Clone()
	out.Name = name
	out.Kind = kind
	return out
}

func ptrParam(p ir.Param) *ir.Param {
	return &p
}
